// Package notes maps free-text fragrance note names to their display colors.
package notes

import "strings"

// FallbackColor is used for note names missing from the color table.
const FallbackColor = "#E0E0E0"

// Note is a named fragrance descriptor with its display color.
type Note struct {
	Name  string `bson:"name" json:"name"`
	Color string `bson:"color" json:"color"`
}

// colorByName is keyed by the lower-cased note name.
var colorByName = map[string]string{
	"vanilla":     "#FFF9C4",
	"sweet":       "#EF5350",
	"honey":       "#FFB74D",
	"aromatic":    "#4DB6AC",
	"amber":       "#D7CCC8",
	"lavender":    "#CE93D8",
	"tobacco":     "#A1887F",
	"green":       "#81C784",
	"fresh spicy": "#A5D6A7",
	"powdery":     "#F8BBD0",
	"citrus":      "#FFE082",
	"woody":       "#BCAAA4",
	"conifer":     "#80CBC4",
	"fresh":       "#C8E6C9",
	"fruity":      "#FFCC80",
	"herbal":      "#AED581",
	"cacao":       "#D7CCC8",
	"spicy":       "#FFAB91",
}

// Color returns the display color for an already lower-cased note name.
func Color(name string) string {
	if color, ok := colorByName[name]; ok {
		return color
	}
	return FallbackColor
}

// Normalize splits a comma-separated list of note names and pairs each
// trimmed, lower-cased name with its color. Output order follows input order.
func Normalize(raw string) []Note {
	if raw == "" {
		return []Note{}
	}

	parts := strings.Split(raw, ",")
	out := make([]Note, 0, len(parts))
	for _, part := range parts {
		out = append(out, FromName(part))
	}
	return out
}

// FromName builds a single note from a free-text name.
func FromName(raw string) Note {
	name := strings.ToLower(strings.TrimSpace(raw))
	return Note{Name: name, Color: Color(name)}
}

// NormalizeValue normalizes v when it is a string and returns any other
// value unchanged.
func NormalizeValue(v any) any {
	raw, ok := v.(string)
	if !ok {
		return v
	}
	return Normalize(raw)
}

// Names joins note names with a single space.
func Names(list []Note) string {
	names := make([]string, 0, len(list))
	for _, n := range list {
		names = append(names, n.Name)
	}
	return strings.Join(names, " ")
}
