package strategy

// Action is the trade direction for new-position strategies.
type Action string

const (
	ActionLong  Action = "LONG"
	ActionShort Action = "SHORT"
)

// PositionAction describes what to do with an already-open position.
type PositionAction string

const (
	PositionClose   PositionAction = "CLOSE"
	PositionReverse PositionAction = "REVERSE"
	PositionCancel  PositionAction = "CANCEL"
)

// ExitLogic controls whether every exit condition must hold (ALL) or any
// single one suffices (ANY). ALL is the default and is represented by the
// zero value so consumers can distinguish "not specified" from "explicit".
type ExitLogic string

const (
	ExitAll ExitLogic = "ALL"
	ExitAny ExitLogic = "ANY"
)

// EventLogic is the ALL/ANY concept applied across multiple Polymarket
// event clauses within one strategy.
type EventLogic string

const (
	EventAnd EventLogic = "AND"
	EventOr  EventLogic = "OR"
)

// Condition types.
const (
	ConditionEvent        = "event"
	ConditionOI           = "oi"
	ConditionPrice        = "price"
	ConditionPnL          = "pnl"
	ConditionTime         = "time"
	ConditionTrailingStop = "trailing_stop"
)

// Event types, used downstream to pick an icon/color per condition.
// Trend is reused for P&L and time conditions.
const (
	EventTypePolymarket = "polymarket"
	EventTypePrice      = "price"
	EventTypeFunding    = "funding"
	EventTypeOI         = "oi"
	EventTypeVolume     = "volume"
	EventTypeTrend      = "trend"
)

// Condition is a single trigger extracted from the input text.
type Condition struct {
	Type        string   `json:"type"`
	EventType   string   `json:"eventType,omitempty"`
	Description string   `json:"description"`
	Value       *float64 `json:"value,omitempty"`
	MarketID    string   `json:"marketId,omitempty"`
	Probability *float64 `json:"probability,omitempty"`
	TimePeriod  string   `json:"timePeriod,omitempty"`
	IsAbsolute  *bool    `json:"isAbsolute,omitempty"`
}

// PositionAdjustment is a dynamic position-sizing rule keyed by a
// probability threshold. Direction is "increase" or "decrease".
type PositionAdjustment struct {
	Probability float64 `json:"probability"`
	Adjustment  float64 `json:"adjustment"`
	Direction   string  `json:"direction"`
}

// ParsedStrategy is the structured result of parsing one free-text
// strategy sentence. Optional fields follow the present-only-when-
// meaningfully-non-default convention: ExitLogic is set only when ANY
// was detected, PositionSize only when a partial close differs from
// 100%, EventLogic only when two or more Polymarket conditions exist.
type ParsedStrategy struct {
	Asset           string      `json:"asset"`
	Action          Action      `json:"action"`
	Conditions      []Condition `json:"conditions"`
	Leverage        int         `json:"leverage"`
	StopLoss        float64     `json:"stopLoss"`
	TakeProfit      float64     `json:"takeProfit"`
	Name            string      `json:"name"`
	NaturalLanguage string      `json:"naturalLanguage"`
	Warnings        []string    `json:"warnings,omitempty"`

	IsPositionManagement bool           `json:"isPositionManagement"`
	PositionAction       PositionAction `json:"positionAction,omitempty"`
	PositionID           string         `json:"positionId,omitempty"`
	PositionSize         *float64       `json:"positionSize,omitempty"`
	ExitLogic            ExitLogic      `json:"exitLogic,omitempty"`
	EventLogic           EventLogic     `json:"eventLogic,omitempty"`

	// Polymarket-specific exit refinements, each independently optional.
	ProbabilityMomentum            *float64 `json:"probabilityMomentum,omitempty"`
	ProbabilityMomentumDirection   string   `json:"probabilityMomentumDirection,omitempty"`
	ResolutionDeadline             *float64 `json:"resolutionDeadline,omitempty"`
	ResolutionDeadlineCondition    string   `json:"resolutionDeadlineCondition,omitempty"`
	LiquidityThreshold             *float64 `json:"liquidityThreshold,omitempty"`
	ProbabilityChangeRate          *float64 `json:"probabilityChangeRate,omitempty"`
	ProbabilityChangeRateDirection string   `json:"probabilityChangeRateDirection,omitempty"`
	ProbabilityRangeMin            *float64 `json:"probabilityRangeMin,omitempty"`
	ProbabilityRangeMax            *float64 `json:"probabilityRangeMax,omitempty"`

	PnlThreshold *float64 `json:"pnlThreshold,omitempty"`
	PnlType      string   `json:"pnlType,omitempty"`
	TimeLimit    *float64 `json:"timeLimit,omitempty"`
	TimeUnit     string   `json:"timeUnit,omitempty"`
	TrailingStop *float64 `json:"trailingStop,omitempty"`

	PositionAdjustments []PositionAdjustment `json:"positionAdjustments,omitempty"`
}

// ParseResult is the tagged success/failure wrapper returned by
// ParseWithValidation. On failure, Suggestions carries example inputs
// the caller can surface to the user.
type ParseResult struct {
	Success     bool            `json:"success"`
	Strategy    *ParsedStrategy `json:"strategy,omitempty"`
	Error       string          `json:"error,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

// Defaults applied when the corresponding phrase is absent.
const (
	DefaultAsset      = "ETH-PERP"
	DefaultLeverage   = 2
	DefaultStopLoss   = 2.0
	DefaultTakeProfit = 4.0
	DefaultProbability = 70.0
	DefaultEventName  = "Market Event"
)

// PnL threshold kinds.
const (
	PnlTypePercentage = "percentage"
	PnlTypeAbsolute   = "absolute"
)

// Time units for time-boxed exits.
const (
	TimeUnitHours = "hours"
	TimeUnitDays  = "days"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

// HasPolymarketCondition reports whether any extracted condition is a
// Polymarket event condition.
func (s *ParsedStrategy) HasPolymarketCondition() bool {
	for _, c := range s.Conditions {
		if c.EventType == EventTypePolymarket {
			return true
		}
	}
	return false
}

// PolymarketConditionCount counts the Polymarket event conditions.
func (s *ParsedStrategy) PolymarketConditionCount() int {
	n := 0
	for _, c := range s.Conditions {
		if c.EventType == EventTypePolymarket {
			n++
		}
	}
	return n
}
