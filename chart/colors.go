package chart

import "strings"

// palette is used for series without an assigned color.
var palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// named covers the CSS color names used in vehicle color maps.
var named = map[string]string{
	"black":  "#000000",
	"white":  "#FFFFFF",
	"grey":   "#808080",
	"gray":   "#808080",
	"red":    "#FF0000",
	"orange": "#FFA500",
	"yellow": "#FFFF00",
	"green":  "#008000",
	"blue":   "#0000FF",
	"purple": "#800080",
	"pink":   "#FFC0CB",
	"brown":  "#A52A2A",
	"navy":   "#000080",
	"teal":   "#008080",
	"olive":  "#808000",
	"maroon": "#800000",
	"silver": "#C0C0C0",
	"gold":   "#FFD700",
}

// Hex resolves a CSS color name or #RRGGBB value to #RRGGBB.
func Hex(color string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(color))
	if h, ok := named[c]; ok {
		return h, true
	}
	if strings.HasPrefix(c, "#") && len(c) == 7 {
		for _, r := range c[1:] {
			if !strings.ContainsRune("0123456789abcdef", r) {
				return "", false
			}
		}
		return strings.ToUpper(c), true
	}
	return "", false
}

// PaletteColor returns the i-th fallback color.
func PaletteColor(i int) string {
	return palette[i%len(palette)]
}

// ColorMap assigns fixed colors to series keys, e.g. vehicle names. Keys
// match exactly first, then case-insensitively.
type ColorMap map[string]string

// Lookup returns the color for key, or "" when unmapped.
func (m ColorMap) Lookup(key string) string {
	if c, ok := m[key]; ok {
		return c
	}
	best, color := "", ""
	for k, c := range m {
		if strings.EqualFold(k, key) && (best == "" || k < best) {
			best, color = k, c
		}
	}
	return color
}
