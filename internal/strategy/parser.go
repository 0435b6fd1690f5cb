// Package strategy converts free-text trading-strategy sentences into
// structured strategy records. Parsing is an ordered sequence of
// independent pattern passes over the input; every pass contributes
// zero or more fields and none of them can fail, so Parse is total and
// deterministic: any string in, a well-formed ParsedStrategy out, with
// defaults and warnings standing in for anything the text did not say.
package strategy

import (
	"fmt"
	"strings"
)

// Parse extracts a ParsedStrategy from a natural-language sentence. It
// never fails; worst case the result is mostly defaults with warnings
// explaining what was missing. Identical input always yields a
// value-equal result.
func Parse(input string) ParsedStrategy {
	raw := strings.TrimSpace(input)
	lower := strings.ToLower(raw)

	s := ParsedStrategy{
		Asset:           DefaultAsset,
		Action:          ActionLong,
		Conditions:      []Condition{},
		Leverage:        DefaultLeverage,
		StopLoss:        DefaultStopLoss,
		TakeProfit:      DefaultTakeProfit,
		NaturalLanguage: raw,
	}

	extractPositionIntent(lower, &s)
	// Position fields and exit logic only exist on management commands;
	// for new-position strategies they stay absent.
	if s.IsPositionManagement {
		extractPositionID(raw, &s)
		extractPositionSize(lower, &s)
		extractExitLogic(lower, &s)
	}

	pnlCond := extractPnLExit(lower, &s)
	timeCond := extractTimeExit(lower, &s)
	trailCond := extractTrailingStop(lower, &s)

	extractPolymarketRefinements(lower, &s)

	s.Asset = extractAsset(lower)
	extractAction(lower, &s)
	extractPositionAdjustments(lower, &s)

	// Conditions are appended in a fixed order regardless of where the
	// phrases sat in the sentence: events, OI, price, P&L, time,
	// trailing stop. Downstream rendering relies on this ordering.
	s.Conditions = append(s.Conditions, extractEventConditions(raw, lower)...)
	extractEventLogic(lower, &s)
	if c := extractOICondition(lower); c != nil {
		s.Conditions = append(s.Conditions, *c)
	}
	if c := extractPriceCondition(lower); c != nil {
		s.Conditions = append(s.Conditions, *c)
	}
	if pnlCond != nil {
		s.Conditions = append(s.Conditions, *pnlCond)
	}
	if timeCond != nil {
		s.Conditions = append(s.Conditions, *timeCond)
	}
	if trailCond != nil {
		s.Conditions = append(s.Conditions, *trailCond)
	}

	extractRisk(lower, &s)
	s.Name = synthesizeName(&s)
	s.Warnings = collectWarnings(lower, &s)

	return s
}

// ParseWithValidation wraps Parse with pass/fail semantics for UI
// gating. Failure is a data value, never an error: input shorter than
// five characters, zero extracted conditions, or zero Polymarket
// conditions each yield success=false with example inputs. Strategies
// must be conditioned on at least one Polymarket event; plain
// price-only limit orders are rejected here by design.
func ParseWithValidation(input string) ParseResult {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) < 5 {
		return ParseResult{
			Success:     false,
			Error:       "Strategy description is too short to parse",
			Suggestions: exampleStrategies,
		}
	}

	s := Parse(input)
	if len(s.Conditions) == 0 {
		return ParseResult{
			Success:     false,
			Error:       "No trigger conditions detected in the strategy text",
			Suggestions: exampleStrategies,
		}
	}
	if !s.HasPolymarketCondition() {
		return ParseResult{
			Success:     false,
			Error:       "A Polymarket event condition is required; price-only strategies are not supported",
			Suggestions: exampleStrategies,
		}
	}
	return ParseResult{Success: true, Strategy: &s}
}

var exampleStrategies = []string{
	`Long ETH if Polymarket "Ethereum ETF Approval" probability >= 75%`,
	`Short BTC when Polymarket "Fed Rate Cut in March" probability reaches 80%, 3x leverage`,
	`Long SOL if Polymarket "Solana ETF Approval" probability >= 65% and OI rises 5% over 24h`,
}

// collectWarnings gathers the soft validation messages. Warnings never
// block result production.
func collectWarnings(lower string, s *ParsedStrategy) []string {
	var warnings []string

	hasPolymarket := s.HasPolymarketCondition()
	switch {
	case len(s.Conditions) == 0 && s.IsPositionManagement:
		warnings = append(warnings, "No trigger conditions found; a Polymarket event condition is required to arm this position command")
	case len(s.Conditions) == 0:
		warnings = append(warnings, "No conditions detected; strategies must be triggered by a Polymarket event")
	case !hasPolymarket && s.IsPositionManagement:
		warnings = append(warnings, "Position command has no Polymarket event condition; only event-conditioned triggers are supported")
	case !hasPolymarket:
		warnings = append(warnings, "No Polymarket event condition found; only event-conditioned strategies are supported")
	}

	if !s.IsPositionManagement && !longRe.MatchString(lower) && !shortRe.MatchString(lower) {
		warnings = append(warnings, "No long/short keyword found, defaulting to LONG")
	}

	if s.Leverage > 10 {
		warnings = append(warnings, fmt.Sprintf("Leverage %dx is high; liquidation risk rises sharply above 10x", s.Leverage))
	}

	return warnings
}
