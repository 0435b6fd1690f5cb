package strategy

import (
	"strings"
)

// extractPositionIntent detects close/reverse/cancel commands on an
// existing position. Precedence is CLOSE > REVERSE > CANCEL; when two
// action words appear in one sentence the earlier check wins.
func extractPositionIntent(lower string, s *ParsedStrategy) {
	switch {
	case closeIntentRe.MatchString(lower):
		s.IsPositionManagement = true
		s.PositionAction = PositionClose
	case reverseIntentRe.MatchString(lower):
		s.IsPositionManagement = true
		s.PositionAction = PositionReverse
	case cancelIntentRe.MatchString(lower) || hasStandaloneStop(lower):
		s.IsPositionManagement = true
		s.PositionAction = PositionCancel
	}
}

// hasStandaloneStop reports whether "stop" appears as a command rather
// than as part of "stop loss" or "trailing stop".
func hasStandaloneStop(lower string) bool {
	for _, m := range stopNeighborRe.FindAllStringSubmatch(lower, -1) {
		prev, next := m[1], m[2]
		if prev == "trailing" {
			continue
		}
		if next == "loss" || next == "losses" {
			continue
		}
		return true
	}
	return false
}

// extractPositionID pulls the identifier token following the word
// "position". Matches against the raw input so the ID keeps its casing;
// a leading '#' is normalized away. Tokens without a digit, '#' or '-'
// are ignored so that phrases like "of position if ..." do not produce
// a bogus ID.
func extractPositionID(raw string, s *ParsedStrategy) {
	m := positionIDRe.FindStringSubmatch(raw)
	if m == nil {
		return
	}
	token := m[1]
	if !strings.ContainsAny(token, "0123456789#-") {
		return
	}
	s.PositionID = strings.TrimPrefix(token, "#")
}

// extractPositionSize detects a partial-close percentage. The value is
// clamped to [0,100]; 100 means "the whole position" and is represented
// by leaving PositionSize unset.
func extractPositionSize(lower string, s *ParsedStrategy) {
	m := partialSizeRe.FindStringSubmatch(lower)
	if m == nil {
		m = bareSizeRe.FindStringSubmatch(lower)
	}
	if m == nil {
		return
	}
	size := parseFloat(m[1])
	if size > 100 {
		size = 100
	}
	if size < 0 {
		size = 0
	}
	if size == 100 {
		return
	}
	s.PositionSize = floatPtr(size)
}
