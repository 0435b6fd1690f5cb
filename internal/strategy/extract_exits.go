package strategy

import (
	"fmt"
	"strings"
)

// extractPnLExit detects a P&L-based exit trigger. Three phrasings are
// tried in order: percentage-reaches, absolute-reaches (with K/M/B
// scaling), percentage-drops-to. The first match wins. Returns the
// synthesized condition, or nil.
func extractPnLExit(lower string, s *ParsedStrategy) *Condition {
	if m := pnlPctRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[1])
		s.PnlThreshold = floatPtr(v)
		s.PnlType = PnlTypePercentage
		return &Condition{
			Type:        ConditionPnL,
			EventType:   EventTypeTrend,
			Description: fmt.Sprintf("P&L reaches %s%%", trimFloat(v)),
			Value:       floatPtr(v),
		}
	}
	if m := pnlAbsRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[1]) * suffixScale(m[2])
		s.PnlThreshold = floatPtr(v)
		s.PnlType = PnlTypeAbsolute
		return &Condition{
			Type:        ConditionPnL,
			EventType:   EventTypeTrend,
			Description: fmt.Sprintf("P&L reaches $%s", formatUSD(v)),
			Value:       floatPtr(v),
		}
	}
	if m := pnlDropRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[1])
		s.PnlThreshold = floatPtr(v)
		s.PnlType = PnlTypePercentage
		return &Condition{
			Type:        ConditionPnL,
			EventType:   EventTypeTrend,
			Description: fmt.Sprintf("P&L drops to %s%%", trimFloat(v)),
			Value:       floatPtr(v),
		}
	}
	return nil
}

// extractTimeExit detects a time-boxed exit. "after/in N h|d", then
// "within N h|d", then the literal "end of day" (24 hours).
func extractTimeExit(lower string, s *ParsedStrategy) *Condition {
	m := timeAfterRe.FindStringSubmatch(lower)
	if m == nil {
		m = timeWithinRe.FindStringSubmatch(lower)
	}
	var value float64
	var unit string
	switch {
	case m != nil:
		value = parseFloat(m[1])
		if strings.HasPrefix(m[2], "d") {
			unit = TimeUnitDays
		} else {
			unit = TimeUnitHours
		}
	case endOfDayRe.MatchString(lower):
		value = 24
		unit = TimeUnitHours
	default:
		return nil
	}

	s.TimeLimit = floatPtr(value)
	s.TimeUnit = unit

	c := &Condition{
		Type:        ConditionTime,
		EventType:   EventTypeTrend,
		Description: fmt.Sprintf("Time limit: %s %s", trimFloat(value), unit),
		Value:       floatPtr(value),
	}
	// TimePeriod only carries the canonical windows.
	switch {
	case unit == TimeUnitHours && value == 1:
		c.TimePeriod = "1h"
	case unit == TimeUnitHours && value == 24:
		c.TimePeriod = "24h"
	case unit == TimeUnitDays && value == 7:
		c.TimePeriod = "7d"
	}
	return c
}

// extractTrailingStop detects a trailing-stop exit; two phrasings for a
// percentage retracement from peak/high/entry, first match wins.
func extractTrailingStop(lower string, s *ParsedStrategy) *Condition {
	var v float64
	if m := trailingFromPeakRe.FindStringSubmatch(lower); m != nil {
		v = parseFloat(m[1])
	} else if m := trailingPctRe.FindStringSubmatch(lower); m != nil {
		if m[1] != "" {
			v = parseFloat(m[1])
		} else {
			v = parseFloat(m[2])
		}
	} else {
		return nil
	}

	s.TrailingStop = floatPtr(v)
	return &Condition{
		Type:        ConditionTrailingStop,
		EventType:   EventTypePrice,
		Description: fmt.Sprintf("Trailing stop: %s%% from peak", trimFloat(v)),
		Value:       floatPtr(v),
	}
}

// extractExitLogic detects an explicit "any condition" phrasing. ALL is
// the default and is represented by leaving ExitLogic unset.
func extractExitLogic(lower string, s *ParsedStrategy) {
	if anyConditionRe.MatchString(lower) {
		s.ExitLogic = ExitAny
	}
}
