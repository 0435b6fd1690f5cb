package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPositionIntent(t *testing.T) {
	tests := []struct {
		input  string
		mgmt   bool
		action PositionAction
	}{
		{"close my eth position", true, PositionClose},
		{"exit the trade now", true, PositionClose},
		{"liquidate everything", true, PositionClose},
		{"reverse my btc position", true, PositionReverse},
		{"flip the position", true, PositionReverse},
		{"cancel the pending order", true, PositionCancel},
		{"stop the strategy", true, PositionCancel},
		// "close" outranks "reverse" when both appear.
		{"close and reverse", true, PositionClose},
		// "stop" inside risk phrases is not a command, hyphenated or not.
		{"long eth with a stop loss at 2%", false, ""},
		{"long eth with stop-loss at 2%", false, ""},
		{"long eth with a trailing stop of 3%", false, ""},
		{"long eth with a trailing-stop of 3%", false, ""},
		{"long eth at 3x", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s ParsedStrategy
			extractPositionIntent(tt.input, &s)
			assert.Equal(t, tt.mgmt, s.IsPositionManagement)
			assert.Equal(t, tt.action, s.PositionAction)
		})
	}
}

func TestExtractPositionID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"close position POS-001", "POS-001"},
		{"close position #42", "42"},
		{"close position abc123", "abc123"},
		// Plain words after "position" are not IDs.
		{"close the position if probability drops", ""},
		{"close position when it resolves", ""},
		{"close everything", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s ParsedStrategy
			extractPositionID(tt.input, &s)
			assert.Equal(t, tt.want, s.PositionID)
		})
	}
}

func TestExtractPositionSize(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"close 50% of position", floatPtr(50)},
		{"reduce 25.5% of the position", floatPtr(25.5)},
		{"sell 30% of the position", floatPtr(30)},
		// 100% means the whole position and stays unset.
		{"close 100% of position", nil},
		// Out-of-range values clamp to 100 and therefore stay unset.
		{"close 150% of position", nil},
		{"close the position", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s ParsedStrategy
			extractPositionSize(tt.input, &s)
			if tt.want == nil {
				assert.Nil(t, s.PositionSize)
			} else {
				require.NotNil(t, s.PositionSize)
				assert.Equal(t, *tt.want, *s.PositionSize)
			}
		})
	}
}

func TestParse_PartialCloseClampAndID(t *testing.T) {
	s := Parse(`Close 150% of position POS-001 when "ETF" probability reaches 80%`)

	assert.True(t, s.IsPositionManagement)
	assert.Equal(t, PositionClose, s.PositionAction)
	assert.Equal(t, "POS-001", s.PositionID)
	assert.Nil(t, s.PositionSize, "clamped 100% close must leave the size unset")
}

func TestExtractPnLExit(t *testing.T) {
	tests := []struct {
		input    string
		wantNil  bool
		value    float64
		pnlType  string
		contains string
	}{
		{"close when pnl reaches 10%", false, 10, PnlTypePercentage, "10%"},
		{"exit when profit exceeds 5.5%", false, 5.5, PnlTypePercentage, "5.5%"},
		{"close when pnl reaches $5,000", false, 5000, PnlTypeAbsolute, "$5,000"},
		{"exit when p&l hits $2k", false, 2000, PnlTypeAbsolute, "$2,000"},
		{"close if pnl drops to -5%", false, -5, PnlTypePercentage, "-5%"},
		{"long eth at 3x", true, 0, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s ParsedStrategy
			c := extractPnLExit(tt.input, &s)
			if tt.wantNil {
				assert.Nil(t, c)
				assert.Nil(t, s.PnlThreshold)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, ConditionPnL, c.Type)
			require.NotNil(t, c.Value)
			assert.Equal(t, tt.value, *c.Value)
			assert.Equal(t, tt.pnlType, s.PnlType)
			assert.Contains(t, c.Description, tt.contains)
		})
	}
}

func TestExtractTimeExit(t *testing.T) {
	tests := []struct {
		input   string
		wantNil bool
		value   float64
		unit    string
		period  string
	}{
		{"exit after 6 hours", false, 6, TimeUnitHours, ""},
		{"close in 1 hour", false, 1, TimeUnitHours, "1h"},
		{"exit within 2 days", false, 2, TimeUnitDays, ""},
		{"exit within 7 days", false, 7, TimeUnitDays, "7d"},
		{"close by end of day", false, 24, TimeUnitHours, "24h"},
		{"long eth", true, 0, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s ParsedStrategy
			c := extractTimeExit(tt.input, &s)
			if tt.wantNil {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, ConditionTime, c.Type)
			require.NotNil(t, s.TimeLimit)
			assert.Equal(t, tt.value, *s.TimeLimit)
			assert.Equal(t, tt.unit, s.TimeUnit)
			assert.Equal(t, tt.period, c.TimePeriod)
		})
	}
}

func TestExtractTrailingStop(t *testing.T) {
	tests := []struct {
		input   string
		wantNil bool
		value   float64
	}{
		{"sell if price drops 5% from the peak", false, 5},
		{"exit 3% below the highs", false, 3},
		{"trailing stop of 2.5%", false, 2.5},
		{"trailing stop at 4%", false, 4},
		{"trailing-stop at 4%", false, 4},
		{"stop loss at 2%", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var s ParsedStrategy
			c := extractTrailingStop(tt.input, &s)
			if tt.wantNil {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, ConditionTrailingStop, c.Type)
			require.NotNil(t, s.TrailingStop)
			assert.Equal(t, tt.value, *s.TrailingStop)
		})
	}
}

func TestExtractPolymarketRefinements(t *testing.T) {
	var s ParsedStrategy
	extractPolymarketRefinements(
		"exit if probability momentum drops by 5% or 2 days before resolution, "+
			"volume above $500k, change rate slows to 1%, "+
			"or probability moves outside the 40-60% band", &s)

	assert.Equal(t, "drop", s.ProbabilityMomentumDirection)
	require.NotNil(t, s.ProbabilityMomentum)
	assert.Equal(t, 5.0, *s.ProbabilityMomentum)

	require.NotNil(t, s.ResolutionDeadline)
	assert.Equal(t, 48.0, *s.ResolutionDeadline)
	assert.Equal(t, "before", s.ResolutionDeadlineCondition)

	require.NotNil(t, s.LiquidityThreshold)
	assert.Equal(t, 500_000.0, *s.LiquidityThreshold)

	require.NotNil(t, s.ProbabilityChangeRate)
	assert.Equal(t, 1.0, *s.ProbabilityChangeRate)
	assert.Equal(t, "slows", s.ProbabilityChangeRateDirection)

	require.NotNil(t, s.ProbabilityRangeMin)
	require.NotNil(t, s.ProbabilityRangeMax)
	assert.Equal(t, 40.0, *s.ProbabilityRangeMin)
	assert.Equal(t, 60.0, *s.ProbabilityRangeMax)
}

func TestExtractPolymarketRefinements_RemainingDeadline(t *testing.T) {
	var s ParsedStrategy
	extractPolymarketRefinements("close with less than 12 hours remaining", &s)

	require.NotNil(t, s.ResolutionDeadline)
	assert.Equal(t, 12.0, *s.ResolutionDeadline)
	assert.Equal(t, "remaining", s.ResolutionDeadlineCondition)
}

func TestExtractPositionAdjustments_DedupAndOrder(t *testing.T) {
	var s ParsedStrategy
	extractPositionAdjustments(
		"increase by 10% when probability reaches 80% "+
			"and increase by 15% if probability reaches 80% "+
			"and decrease by 5% if probability drops below 60%", &s)

	// Duplicate (80, increase) keeps the first adjustment value; results
	// are sorted ascending by probability.
	require.Len(t, s.PositionAdjustments, 2)
	assert.Equal(t, PositionAdjustment{Probability: 60, Adjustment: 5, Direction: "decrease"}, s.PositionAdjustments[0])
	assert.Equal(t, PositionAdjustment{Probability: 80, Adjustment: 10, Direction: "increase"}, s.PositionAdjustments[1])
}

func TestExtractOICondition(t *testing.T) {
	t.Run("absolute level", func(t *testing.T) {
		c := extractOICondition("long eth if oi above $2.2b")
		require.NotNil(t, c)
		assert.Equal(t, ConditionOI, c.Type)
		require.NotNil(t, c.Value)
		assert.Equal(t, 2_200_000_000.0, *c.Value)
		require.NotNil(t, c.IsAbsolute)
		assert.True(t, *c.IsAbsolute)
		assert.Equal(t, "OI above $2.2B", c.Description)
		assert.Empty(t, c.TimePeriod)
	})

	t.Run("relative change with window", func(t *testing.T) {
		c := extractOICondition("long eth if open interest rises 5% over 24h")
		require.NotNil(t, c)
		require.NotNil(t, c.Value)
		assert.Equal(t, 5.0, *c.Value)
		require.NotNil(t, c.IsAbsolute)
		assert.False(t, *c.IsAbsolute)
		assert.Equal(t, "24h", c.TimePeriod)
		assert.Equal(t, "OI rises 5% over 24h", c.Description)
	})

	t.Run("relative change defaults to 1h", func(t *testing.T) {
		c := extractOICondition("long eth if oi drops 3%")
		require.NotNil(t, c)
		assert.Equal(t, "1h", c.TimePeriod)
		assert.Contains(t, c.Description, "falls")
	})

	t.Run("no oi phrase", func(t *testing.T) {
		assert.Nil(t, extractOICondition("long eth above $4,000"))
	})
}

func TestExtractPriceCondition(t *testing.T) {
	t.Run("plain level", func(t *testing.T) {
		c := extractPriceCondition("buy eth above $45,000")
		require.NotNil(t, c)
		assert.Equal(t, ConditionPrice, c.Type)
		require.NotNil(t, c.Value)
		assert.Equal(t, 45_000.0, *c.Value)
		assert.Equal(t, "Price above $45,000", c.Description)
	})

	t.Run("oi dollars are not a price", func(t *testing.T) {
		assert.Nil(t, extractPriceCondition("open interest above $2.2b"))
		assert.Nil(t, extractPriceCondition("volume above $500k"))
	})

	t.Run("below direction", func(t *testing.T) {
		c := extractPriceCondition("short btc below $90,000")
		require.NotNil(t, c)
		assert.Equal(t, "Price below $90,000", c.Description)
	})
}

func TestExtractRisk(t *testing.T) {
	tests := []struct {
		input      string
		leverage   int
		stopLoss   float64
		takeProfit float64
	}{
		{"long eth at 3x", 3, DefaultStopLoss, DefaultTakeProfit},
		{"long eth with leverage of 5", 5, DefaultStopLoss, DefaultTakeProfit},
		{"long eth 0x", 1, DefaultStopLoss, DefaultTakeProfit},
		{"long eth with stop loss at 1.5% and take profit at 8%", DefaultLeverage, 1.5, 8},
		{"long eth sl 3% tp 6%", DefaultLeverage, 3, 6},
		{"long eth", DefaultLeverage, DefaultStopLoss, DefaultTakeProfit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := ParsedStrategy{Leverage: DefaultLeverage, StopLoss: DefaultStopLoss, TakeProfit: DefaultTakeProfit}
			extractRisk(tt.input, &s)
			assert.Equal(t, tt.leverage, s.Leverage)
			assert.Equal(t, tt.stopLoss, s.StopLoss)
			assert.Equal(t, tt.takeProfit, s.TakeProfit)
		})
	}
}

func TestExtractAsset(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"long eth", "ETH-PERP"},
		{"short btc", "BTC-PERP"},
		{"buy avax at 3x", "AVAX-PERP"},
		// Earliest mention wins.
		{"short btc and hedge with eth", "BTC-PERP"},
		{"sol then btc", "SOL-PERP"},
		// Substrings of other words do not count.
		{"ethereal opportunity", "ETH-PERP"},
		{"", "ETH-PERP"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAsset(tt.input))
		})
	}
}

func TestExtractEventConditions_Fallbacks(t *testing.T) {
	t.Run("context phrase without quotes", func(t *testing.T) {
		raw := "Long ETH when the ETF approval probability reaches 75%"
		got := extractEventConditions(raw, "long eth when the etf approval probability reaches 75%")
		require.Len(t, got, 1)
		assert.Equal(t, EventTypePolymarket, got[0].EventType)
		require.NotNil(t, got[0].Probability)
		assert.Equal(t, 75.0, *got[0].Probability)
	})

	t.Run("keyword only falls back to default event", func(t *testing.T) {
		raw := "Long ETH on good polymarket odds"
		got := extractEventConditions(raw, "long eth on good polymarket odds")
		require.Len(t, got, 1)
		assert.Equal(t, DefaultEventName, extractedName(got[0]))
		require.NotNil(t, got[0].Probability)
		assert.Equal(t, DefaultProbability, *got[0].Probability)
	})

	t.Run("no hint means no event", func(t *testing.T) {
		got := extractEventConditions("Long ETH above $4,000", "long eth above $4,000")
		assert.Empty(t, got)
	})
}

// extractedName recovers the event name from the generated description.
func extractedName(c Condition) string {
	name := c.Description
	name = name[len("Polymarket: "):]
	if i := indexWord(name, "probability"); i > 0 {
		name = name[:i-1]
	}
	return name
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, 5000.0, parseFloat("5,000"))
	assert.Equal(t, 0.0, parseFloat("not a number"))

	assert.Equal(t, 1_000.0, suffixScale("k"))
	assert.Equal(t, 1_000_000.0, suffixScale("M"))
	assert.Equal(t, 1_000_000_000.0, suffixScale("b"))
	assert.Equal(t, 1.0, suffixScale(""))

	assert.Equal(t, 48.0, toHours(2, "days"))
	assert.Equal(t, 6.0, toHours(6, "hours"))

	assert.Equal(t, "70", trimFloat(70))
	assert.Equal(t, "5.5", trimFloat(5.5))

	assert.Equal(t, "45,000", formatUSD(45000))
	assert.Equal(t, "2,200,000,000", formatUSD(2.2e9))
	assert.Equal(t, "3,500.5", formatUSD(3500.5))
	assert.Equal(t, "950", formatUSD(950))
	assert.Equal(t, "-1,250", formatUSD(-1250))

	assert.Equal(t, "ethereum-etf-approval", slugify("Ethereum ETF Approval"))
}
