package catalog

import (
	"sort"
	"strings"

	"perfumery/internal/models"
)

// MinQueryLength is the shortest trimmed query that is searched at all.
const MinQueryLength = 2

// Field names a searchable product attribute and its weight.
type Field struct {
	Name   string
	Weight int
	text   func(models.Product) string
}

// DefaultFields is the searchable field table. Weights are declarative: a
// product is included when any field matches, and ordering only boosts
// title prefix matches.
var DefaultFields = []Field{
	{Name: "title", Weight: 3, text: func(p models.Product) string { return p.Title }},
	{Name: "category", Weight: 2, text: func(p models.Product) string { return p.CategoryName() }},
	{Name: "type", Weight: 2, text: func(p models.Product) string { return p.TypeName() }},
	{Name: "description", Weight: 1, text: func(p models.Product) string { return p.Description }},
	{Name: "notes", Weight: 1, text: func(p models.Product) string { return p.Notes.Names() }},
}

// MatchMode identifies how a query matched a field.
type MatchMode int

const (
	MatchNone MatchMode = iota
	MatchWordPrefix
	MatchSubstring
	MatchSubsequence
)

// Search returns the products matching query, title word-prefix matches
// first, then by case-insensitive title. The input slice is not modified.
func Search(products []models.Product, query string) []models.Product {
	term := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(term)) < MinQueryLength {
		return []models.Product{}
	}

	type hit struct {
		product    models.Product
		title      string
		titleBoost bool
	}

	hits := make([]hit, 0)
	for _, p := range products {
		if !matchesAnyField(p, term) {
			continue
		}
		title := strings.ToLower(p.Title)
		hits = append(hits, hit{
			product:    p,
			title:      title,
			titleBoost: hasWordPrefix(title, term),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].titleBoost != hits[j].titleBoost {
			return hits[i].titleBoost
		}
		return hits[i].title < hits[j].title
	})

	out := make([]models.Product, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.product)
	}
	return out
}

func matchesAnyField(p models.Product, term string) bool {
	for _, f := range DefaultFields {
		if Match(strings.ToLower(f.text(p)), term) != MatchNone {
			return true
		}
	}
	return false
}

// Match tests an already lower-cased field against an already lower-cased
// term and returns the strictest mode that matched.
func Match(field, term string) MatchMode {
	switch {
	case hasWordPrefix(field, term):
		return MatchWordPrefix
	case strings.Contains(field, term):
		return MatchSubstring
	case isSubsequence(field, term):
		return MatchSubsequence
	default:
		return MatchNone
	}
}

// hasWordPrefix reports whether term occurs at a word boundary in field,
// using the same ASCII word definition as regexp's \b.
func hasWordPrefix(field, term string) bool {
	if term == "" {
		return true
	}
	termStartsWord := isWordByte(term[0])
	for offset := 0; offset <= len(field)-len(term); {
		idx := strings.Index(field[offset:], term)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		prevIsWord := pos > 0 && isWordByte(field[pos-1])
		if prevIsWord != termStartsWord {
			return true
		}
		offset = pos + 1
	}
	return false
}

// isSubsequence reports whether every rune of term appears in field in order.
func isSubsequence(field, term string) bool {
	want := []rune(term)
	i := 0
	for _, r := range field {
		if i == len(want) {
			break
		}
		if r == want[i] {
			i++
		}
	}
	return i == len(want)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
