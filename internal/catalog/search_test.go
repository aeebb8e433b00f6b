package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfumery/internal/models"
	"perfumery/internal/notes"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{Title: "Zest Aqua"},
		{Title: "Vetiver", Description: "earthy roots"},
		{Title: "Marine", Category: &models.Category{Name: "Fresh & Aqua"}},
		{Title: "Aqua Breeze"},
	}
}

func TestSearchRejectsShortQueries(t *testing.T) {
	products := sampleProducts()
	for _, q := range []string{"", " ", "a", "  a  "} {
		assert.Empty(t, Search(products, q), "query %q", q)
	}
}

func TestSearchTitlePrefixFirstThenAlphabetical(t *testing.T) {
	got := Search(sampleProducts(), "aqua")
	assert.Equal(t, []string{"Aqua Breeze", "Zest Aqua", "Marine"}, titles(got))
}

func TestSearchTitleBoostBeatsFuzzyMatches(t *testing.T) {
	products := []models.Product{
		{Title: "Amber Nights", Description: "a smooth mellow vanilla"},
		{Title: "Aqua"},
		{Title: "Millionaire"},
	}

	got := Search(products, "mill")
	require.Len(t, got, 2)
	assert.Equal(t, "Millionaire", got[0].Title)
	assert.Equal(t, "Amber Nights", got[1].Title)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	products := sampleProducts()
	assert.Equal(t, titles(Search(products, "aqua")), titles(Search(products, "AQUA")))
	assert.Equal(t, titles(Search(products, "aqua")), titles(Search(products, "  Aqua ")))
}

func TestSearchCoversEveryField(t *testing.T) {
	products := []models.Product{
		{Title: "One", Type: &models.Type{Name: "EDP"}},
		{Title: "Two", Notes: models.NoteList(notes.Normalize("Citrus, Woody"))},
		{Title: "Three", Description: "smoky incense"},
		{Title: "Four"},
	}

	assert.Equal(t, []string{"One"}, titles(Search(products, "edp")))
	assert.Equal(t, []string{"Two"}, titles(Search(products, "woody")))
	assert.Equal(t, []string{"Three"}, titles(Search(products, "incense")))
}

func TestSearchToleratesMissingFields(t *testing.T) {
	products := []models.Product{{}, {Title: "Oud"}}
	assert.Equal(t, []string{"Oud"}, titles(Search(products, "oud")))
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	before := titles(products)

	got := Search(products, "aqua")
	got[0].Title = "changed"

	assert.Equal(t, before, titles(products))
}

func TestSearchTreatsQueryLiterally(t *testing.T) {
	products := []models.Product{{Title: "No. 5 (Classic)"}, {Title: "Plain"}}
	assert.Equal(t, []string{"No. 5 (Classic)"}, titles(Search(products, "(classic")))
	assert.Empty(t, Search(products, ".*"))
}

func TestMatchModes(t *testing.T) {
	assert.Equal(t, MatchWordPrefix, Match("eau de parfum", "parf"))
	assert.Equal(t, MatchWordPrefix, Match("a-b", "-b"))
	assert.Equal(t, MatchSubstring, Match("superfresh", "fresh"))
	assert.Equal(t, MatchSubsequence, Match("vanilla", "vnl"))
	assert.Equal(t, MatchNone, Match("vanilla", "lv"))
	assert.Equal(t, MatchNone, Match("", "ab"))
}

func TestDefaultFieldWeights(t *testing.T) {
	weights := map[string]int{}
	for _, f := range DefaultFields {
		weights[f.Name] = f.Weight
	}
	assert.Equal(t, map[string]int{"title": 3, "category": 2, "type": 2, "description": 1, "notes": 1}, weights)
}
