package pricing

import (
	"strconv"
	"strings"

	"github.com/warp/billboard-engine/generic"
)

// =============================================================================
// LEVEL CANONICALIZATION
// =============================================================================

var levelSynonyms = map[string]string{
	"عادي":      generic.LevelNormal,
	"normal":    generic.LevelNormal,
	"ممتاز":     generic.LevelPremium,
	"premium":   generic.LevelPremium,
	"excellent": generic.LevelPremium,
	"vip":       generic.LevelVIP,
}

// NormalizeLevel folds level synonyms to one of عادي, ممتاز or VIP.
// Unrecognized strings pass through unchanged.
func NormalizeLevel(level string) string {
	if canon, ok := levelSynonyms[strings.ToLower(strings.TrimSpace(level))]; ok {
		return canon
	}
	return level
}

// NormalizeCategory trims a customer category. Categories are matched verbatim.
func NormalizeCategory(category string) string {
	return strings.TrimSpace(category)
}

// =============================================================================
// SIZE CANONICALIZATION
// =============================================================================

// knownSizes are the dimension pairs recognized in any order and separator.
var knownSizes = [][2]int{{4, 12}, {6, 18}, {8, 24}, {3, 9}, {2, 6}}

var separatorReplacer = strings.NewReplacer("*", "x", "×", "x", " ", "")

// NormalizeSizeText trims, lowercases and unifies the separator to "x".
func NormalizeSizeText(size string) string {
	return separatorReplacer.Replace(strings.ToLower(strings.TrimSpace(size)))
}

// CanonicalSize maps every variant of a known dimension pair ("12*4",
// "4 × 12", "12X4") to its canonical form ("4x12"). Unknown strings are
// returned unchanged.
func CanonicalSize(size string) string {
	a, b, ok := splitDimensions(NormalizeSizeText(size))
	if !ok {
		return size
	}
	for _, known := range knownSizes {
		w, h := strconv.Itoa(known[0]), strconv.Itoa(known[1])
		if (a == w && b == h) || (a == h && b == w) {
			return w + "x" + h
		}
	}
	return size
}

// SizeKey is the form sizes are matched on: canonical, then normalized.
func SizeKey(size string) string {
	return NormalizeSizeText(CanonicalSize(size))
}

// FlipSize swaps the two dimensions around the separator ("5x10" -> "10x5").
// Returns false when the string is not a dimension pair.
func FlipSize(size string) (string, bool) {
	a, b, ok := splitDimensions(NormalizeSizeText(size))
	if !ok {
		return "", false
	}
	return b + "x" + a, true
}

// ParseSizeRef treats a numeric string as a size id and anything else as
// free text. The text is kept either way for the name-based tiers.
func ParseSizeRef(ref string) generic.SizeRef {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return generic.SizeRef{ID: &id, Text: ref}
	}
	return generic.SizeRefFromText(ref)
}

func splitDimensions(s string) (string, string, bool) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return "", "", false
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(p, 64); err != nil {
			return "", "", false
		}
	}
	return parts[0], parts[1], true
}
