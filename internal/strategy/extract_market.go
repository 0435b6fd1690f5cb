package strategy

import (
	"fmt"
	"strings"
)

var assetWhitelist = []string{"ETH", "BTC", "SOL", "AVAX", "MATIC", "ARB", "OP"}

// extractAsset returns the first whitelisted ticker found in the input
// (earliest position wins; whitelist order breaks ties), suffixed with
// -PERP. Defaults to ETH-PERP.
func extractAsset(lower string) string {
	best := ""
	bestIdx := len(lower) + 1
	for _, ticker := range assetWhitelist {
		idx := indexWord(lower, strings.ToLower(ticker))
		if idx >= 0 && idx < bestIdx {
			best = ticker
			bestIdx = idx
		}
	}
	if best == "" {
		return DefaultAsset
	}
	return best + "-PERP"
}

// indexWord finds needle as a whole word inside haystack, returning the
// byte index of the first occurrence or -1.
func indexWord(haystack, needle string) int {
	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(needle)
		beforeOK := start == 0 || !isWordByte(haystack[start-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return start
		}
		offset = end
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

// extractAction sets SHORT when a short/sell keyword appears on a
// new-position strategy. Position-management commands keep the LONG
// default; the field is populated but not meaningful for them.
func extractAction(lower string, s *ParsedStrategy) {
	if !s.IsPositionManagement && shortRe.MatchString(lower) {
		s.Action = ActionShort
	}
}

// extractOICondition detects an open-interest condition. The absolute
// dollar-level pattern takes precedence over the windowed percentage
// change; the time window comes from a keyword search (24h/daily,
// 1h/hourly, 7d/weekly) and defaults to 1h.
func extractOICondition(lower string) *Condition {
	if m := oiAbsRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[1]) * suffixScale(m[2])
		return &Condition{
			Type:        ConditionOI,
			EventType:   EventTypeOI,
			Description: fmt.Sprintf("OI above $%s%s", m[1], strings.ToUpper(m[2])),
			Value:       floatPtr(v),
			IsAbsolute:  boolPtr(true),
		}
	}
	if m := oiRelRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[2])
		window := oiWindow(lower)
		return &Condition{
			Type:        ConditionOI,
			EventType:   EventTypeOI,
			Description: fmt.Sprintf("OI %s %s%% over %s", normalizeOIDirection(m[1]), trimFloat(v), window),
			Value:       floatPtr(v),
			TimePeriod:  window,
			IsAbsolute:  boolPtr(false),
		}
	}
	return nil
}

func oiWindow(lower string) string {
	switch {
	case oiWindow24hRe.MatchString(lower):
		return "24h"
	case oiWindow1hRe.MatchString(lower):
		return "1h"
	case oiWindow7dRe.MatchString(lower):
		return "7d"
	default:
		return "1h"
	}
}

func normalizeOIDirection(word string) string {
	switch {
	case strings.HasPrefix(word, "rise"), strings.HasPrefix(word, "increase"), strings.HasPrefix(word, "climb"):
		return "rises"
	default:
		return "falls"
	}
}

// oiLikeWords are tokens that, when directly preceding "above/below",
// mean the dollar figure is not a price level.
var oiLikeWords = map[string]bool{
	"oi": true, "interest": true, "liquidity": true, "volume": true,
	"pnl": true, "p&l": true, "profit": true,
}

// extractPriceCondition detects a price-level condition ("above|below
// $N"). Dollar amounts carrying a K/M/B suffix or preceded by an OI or
// liquidity keyword are skipped so they are not misread as prices.
func extractPriceCondition(lower string) *Condition {
	for _, m := range priceRe.FindAllStringSubmatch(lower, -1) {
		if m[4] != "" || oiLikeWords[m[1]] {
			continue
		}
		v := parseFloat(m[3])
		return &Condition{
			Type:        ConditionPrice,
			EventType:   EventTypePrice,
			Description: fmt.Sprintf("Price %s $%s", m[2], formatUSD(v)),
			Value:       floatPtr(v),
		}
	}
	return nil
}

// extractRisk fills leverage, stop loss and take profit, applying the
// 2x / 2% / 4% defaults already seeded on the record.
func extractRisk(lower string, s *ParsedStrategy) {
	if m := leverageXRe.FindStringSubmatch(lower); m != nil {
		s.Leverage = parseInt(m[1])
	} else if m := leverageWordRe.FindStringSubmatch(lower); m != nil {
		s.Leverage = parseInt(m[1])
	}
	if s.Leverage < 1 {
		s.Leverage = 1
	}

	if m := stopLossRe.FindStringSubmatch(lower); m != nil {
		s.StopLoss = parseFloat(m[1])
	}
	if m := takeProfitRe.FindStringSubmatch(lower); m != nil {
		s.TakeProfit = parseFloat(m[1])
	}
}
