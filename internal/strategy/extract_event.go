package strategy

import (
	"fmt"
	"sort"
	"strings"
)

// extractPolymarketRefinements picks up the optional exit refinements
// attached to Polymarket conditions. Each is independent and populated
// only if its own pattern matches.
func extractPolymarketRefinements(lower string, s *ParsedStrategy) {
	if m := momentumRe.FindStringSubmatch(lower); m != nil {
		s.ProbabilityMomentumDirection = normalizeMomentum(m[1])
		if m[2] != "" {
			s.ProbabilityMomentum = floatPtr(parseFloat(m[2]))
		}
	}

	if m := deadlineBeforeRe.FindStringSubmatch(lower); m != nil {
		s.ResolutionDeadline = floatPtr(toHours(parseFloat(m[1]), m[2]))
		s.ResolutionDeadlineCondition = "before"
	} else if m := deadlineRemainRe.FindStringSubmatch(lower); m != nil {
		s.ResolutionDeadline = floatPtr(toHours(parseFloat(m[1]), m[2]))
		s.ResolutionDeadlineCondition = "remaining"
	}

	if m := liquidityRe.FindStringSubmatch(lower); m != nil {
		s.LiquidityThreshold = floatPtr(parseFloat(m[1]) * suffixScale(m[2]))
	}

	if m := changeRateRe.FindStringSubmatch(lower); m != nil {
		s.ProbabilityChangeRateDirection = m[1]
		s.ProbabilityChangeRate = floatPtr(parseFloat(m[2]))
	}

	if m := probOutsideRe.FindStringSubmatch(lower); m != nil {
		s.ProbabilityRangeMin = floatPtr(parseFloat(m[1]))
		s.ProbabilityRangeMax = floatPtr(parseFloat(m[2]))
	} else {
		if m := probBelowRe.FindStringSubmatch(lower); m != nil {
			s.ProbabilityRangeMax = floatPtr(parseFloat(m[1]))
		}
		if m := probExceedsRe.FindStringSubmatch(lower); m != nil {
			s.ProbabilityRangeMin = floatPtr(parseFloat(m[1]))
		}
	}
}

func normalizeMomentum(word string) string {
	switch {
	case strings.HasPrefix(word, "accelerate"):
		return "accelerate"
	case strings.HasPrefix(word, "reverse"):
		return "reverse"
	default: // drops, slows
		return "drop"
	}
}

// extractPositionAdjustments sweeps the whole input for dynamic sizing
// rules ("increase by X% if probability reaches Y%", and the decrease
// counterpart). Entries are deduplicated by (probability, direction)
// keeping the first occurrence, then sorted ascending by probability.
func extractPositionAdjustments(lower string, s *ParsedStrategy) {
	var adjustments []PositionAdjustment
	for _, m := range adjustIncreaseRe.FindAllStringSubmatch(lower, -1) {
		adjustments = append(adjustments, PositionAdjustment{
			Probability: parseFloat(m[2]),
			Adjustment:  parseFloat(m[1]),
			Direction:   "increase",
		})
	}
	for _, m := range adjustDecreaseRe.FindAllStringSubmatch(lower, -1) {
		adjustments = append(adjustments, PositionAdjustment{
			Probability: parseFloat(m[2]),
			Adjustment:  parseFloat(m[1]),
			Direction:   "decrease",
		})
	}
	if len(adjustments) == 0 {
		return
	}

	type key struct {
		probability float64
		direction   string
	}
	seen := make(map[key]bool, len(adjustments))
	deduped := adjustments[:0]
	for _, a := range adjustments {
		k := key{a.Probability, a.Direction}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, a)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Probability < deduped[j].Probability
	})
	s.PositionAdjustments = deduped
}

// extractEventConditions finds Polymarket event conditions. The primary
// pattern matches one-or-more quoted event names each followed by a
// probability clause. When nothing quoted matches, a cascading fallback
// tries to recover a single event from context words, defaulting the
// probability to 70 and the name to "Market Event" when unrecoverable.
// The fallback only fires when the input carries a Polymarket-ish
// keyword, so plain price strategies yield no event condition.
func extractEventConditions(raw, lower string) []Condition {
	var conditions []Condition
	for _, m := range quotedEventRe.FindAllStringSubmatch(raw, -1) {
		name := strings.TrimSpace(m[1])
		prob := parseFloat(m[2])
		conditions = append(conditions, eventCondition(name, prob))
	}
	if len(conditions) > 0 {
		return conditions
	}

	if !polymarketHintRe.MatchString(lower) {
		return nil
	}

	if m := contextEventRe.FindStringSubmatch(raw); m != nil {
		return []Condition{eventCondition(strings.TrimSpace(m[1]), parseFloat(m[2]))}
	}
	if m := polymarketNamedRe.FindStringSubmatch(raw); m != nil {
		return []Condition{eventCondition(strings.TrimSpace(m[1]), parseFloat(m[2]))}
	}

	prob := DefaultProbability
	if m := probNearKeywordRe.FindStringSubmatch(lower); m != nil {
		prob = parseFloat(m[1])
	}
	return []Condition{eventCondition(DefaultEventName, prob)}
}

func eventCondition(name string, probability float64) Condition {
	return Condition{
		Type:        ConditionEvent,
		EventType:   EventTypePolymarket,
		Description: fmt.Sprintf("Polymarket: %s probability ≥ %s%%", name, trimFloat(probability)),
		Value:       floatPtr(probability),
		MarketID:    slugify(name),
		Probability: floatPtr(probability),
	}
}

// extractEventLogic decides how multiple Polymarket clauses combine.
// Only meaningful (and only set) when two or more event conditions
// exist; AND is the default.
func extractEventLogic(lower string, s *ParsedStrategy) {
	if s.PolymarketConditionCount() < 2 {
		return
	}
	if anyEventRe.MatchString(lower) {
		s.EventLogic = EventOr
	} else {
		s.EventLogic = EventAnd
	}
}
