package strategy

import (
	"fmt"
	"strconv"
	"strings"
)

// parseFloat is a forgiving strconv wrapper: thousands separators are
// stripped and failures collapse to zero instead of surfacing errors.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// suffixScale maps a k/m/b magnitude suffix to its multiplier.
func suffixScale(suffix string) float64 {
	switch strings.ToLower(suffix) {
	case "k":
		return 1_000
	case "m":
		return 1_000_000
	case "b":
		return 1_000_000_000
	default:
		return 1
	}
}

// toHours converts a value with an h/d unit word into hours.
func toHours(v float64, unit string) float64 {
	if strings.HasPrefix(unit, "d") {
		return v * 24
	}
	return v
}

// trimFloat renders a float without a trailing ".0" so descriptions
// read "70%" rather than "70.0%".
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatUSD renders a dollar amount with thousands separators, keeping
// any fractional part ("45000" -> "45,000", "2.5" -> "2.5").
func formatUSD(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// slugify derives a market id from an event name: lowercase with
// spaces turned into hyphens.
func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// synthesizeName derives the human-readable strategy label.
func synthesizeName(s *ParsedStrategy) string {
	if s.IsPositionManagement {
		target := s.Asset
		if s.PositionID != "" {
			target = "position " + s.PositionID
		}
		return fmt.Sprintf("%s %s", s.PositionAction, target)
	}
	first := "custom"
	if len(s.Conditions) > 0 {
		first = s.Conditions[0].Type
	}
	return fmt.Sprintf("%s %s %s", s.Asset, first, s.Action)
}
