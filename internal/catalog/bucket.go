package catalog

import (
	"regexp"
	"strings"

	"perfumery/internal/models"
)

// Bucket is a storefront collection a product can be grouped into,
// independent of the stored category names.
type Bucket string

const (
	BucketAll      Bucket = "all"
	BucketFeatured Bucket = "featured"
	BucketMen      Bucket = "men"
	BucketWomen    Bucket = "women"
	BucketUnisex   Bucket = "unisex"
	BucketLuxury   Bucket = "luxury"
	BucketFresh    Bucket = "fresh"
	BucketOriental Bucket = "oriental"
)

type bucketRule struct {
	title   string
	include []string
	exclude []string
}

// Women's words are excluded from men because "women" contains "men".
var bucketRules = map[Bucket]bucketRule{
	BucketMen: {
		title:   "Men's Collection",
		include: []string{"men", "male", "homme", "masculine"},
		exclude: []string{"women", "female", "femme", "feminine"},
	},
	BucketWomen: {
		title:   "Women's Collection",
		include: []string{"women", "female", "femme", "feminine"},
	},
	BucketUnisex: {
		title:   "Unisex Collection",
		include: []string{"unisex", "neutral", "both"},
	},
	BucketLuxury: {
		title:   "Luxury Collection",
		include: []string{"luxury", "premium", "exclusive", "collection"},
	},
	BucketFresh: {
		title:   "Fresh & Citrus",
		include: []string{"fresh", "citrus", "light", "aqua"},
	},
	BucketOriental: {
		title:   "Oriental & Spicy",
		include: []string{"oriental", "spicy", "warm", "exotic"},
	},
}

var bucketTitles = map[Bucket]string{
	BucketAll:      "Our Products",
	BucketFeatured: "Featured Products",
}

type compiledRule struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

var compiledRules = compileRules(bucketRules)

func compileRules(rules map[Bucket]bucketRule) map[Bucket]compiledRule {
	out := make(map[Bucket]compiledRule, len(rules))
	for bucket, rule := range rules {
		out[bucket] = compiledRule{
			include: wordPattern(rule.include),
			exclude: wordPattern(rule.exclude),
		}
	}
	return out
}

func wordPattern(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Classify reports whether a product with the given category name and
// featured flag belongs to bucket. Unknown buckets fall back to substring
// containment in either direction.
func Classify(categoryName string, bucket Bucket, featured bool) bool {
	switch bucket {
	case BucketAll:
		return true
	case BucketFeatured:
		return featured
	}

	rule, ok := compiledRules[bucket]
	if !ok {
		name := strings.ToLower(categoryName)
		key := strings.ToLower(string(bucket))
		return strings.Contains(name, key) || strings.Contains(key, name)
	}

	if rule.include == nil || !rule.include.MatchString(categoryName) {
		return false
	}
	if rule.exclude != nil && rule.exclude.MatchString(categoryName) {
		return false
	}
	return true
}

// FilterByBucket returns the products classified into bucket, in input order.
func FilterByBucket(products []models.Product, bucket Bucket) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Classify(p.CategoryName(), bucket, p.Featured) {
			out = append(out, p)
		}
	}
	return out
}

// Buckets lists every known bucket.
func Buckets() []Bucket {
	return []Bucket{
		BucketAll, BucketFeatured, BucketMen, BucketWomen,
		BucketUnisex, BucketLuxury, BucketFresh, BucketOriental,
	}
}

// Title returns the storefront heading for bucket.
func Title(bucket Bucket) string {
	if title, ok := bucketTitles[bucket]; ok {
		return title
	}
	if rule, ok := bucketRules[bucket]; ok {
		return rule.title
	}
	return bucketTitles[BucketAll]
}

// ParseBucket normalizes user input. Empty input means BucketAll.
func ParseBucket(raw string) Bucket {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return BucketAll
	}
	return Bucket(value)
}
