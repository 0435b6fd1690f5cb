package strategy

import "regexp"

// All extraction patterns are compiled once at package init. Matching is
// done against the lowercased input except where noted (event names and
// position IDs keep their original casing, so those patterns carry (?i)
// and run against the raw input).
var (
	// Position-management intent.
	closeIntentRe   = regexp.MustCompile(`\b(close|exit|liquidate)\b`)
	reverseIntentRe = regexp.MustCompile(`\b(reverse|flip|invert)\b`)
	cancelIntentRe  = regexp.MustCompile(`\b(cancel|abort)\b`)
	// "stop" counts as cancel intent only when it is not part of
	// "stop loss" or "trailing stop" (spaced or hyphenated); neighbors
	// are checked in code.
	stopNeighborRe = regexp.MustCompile(`(?:([a-z]+)[\s-]+)?\bstop\b(?:[\s-]+([a-z]+))?`)

	// Position ID: token after the word "position", leading '#' dropped.
	positionIDRe = regexp.MustCompile(`(?i)\bposition\s+#?([A-Za-z0-9][A-Za-z0-9#-]*)`)

	// Partial close size.
	partialSizeRe = regexp.MustCompile(`(?:close|reduce|scale\s+out)\s+(\d+(?:\.\d+)?)\s*%\s+of\s+(?:the\s+)?position`)
	bareSizeRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s+of\s+(?:the\s+)?position`)

	// P&L exits, tried in order; first match wins.
	pnlPctRe  = regexp.MustCompile(`(?:pnl|p&l|profit)\s+(?:reaches|hits|exceeds|is\s+(?:up|above))\s+\+?(\d+(?:\.\d+)?)\s*%`)
	pnlAbsRe  = regexp.MustCompile(`(?:pnl|p&l|profit)\s+(?:reaches|hits|exceeds)\s+\$?(\d[\d,]*(?:\.\d+)?)\s*([kmb])?\b`)
	pnlDropRe = regexp.MustCompile(`(?:pnl|p&l|loss)\s+(?:drops?\s+to|falls?\s+to)\s+(-?\d+(?:\.\d+)?)\s*%`)

	// Time-boxed exits, tried in order.
	timeAfterRe  = regexp.MustCompile(`\b(?:after|in)\s+(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|days?|d)\b`)
	timeWithinRe = regexp.MustCompile(`\bwithin\s+(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|days?|d)\b`)
	endOfDayRe   = regexp.MustCompile(`\bend\s+of\s+(?:the\s+)?day\b`)

	// Trailing stop, two phrasings, first match wins.
	trailingFromPeakRe = regexp.MustCompile(`(?:drops?|falls?|retraces?)\s+(\d+(?:\.\d+)?)\s*%\s+from\s+(?:the\s+|its\s+)?(?:peak|highs?|entry)`)
	trailingPctRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s+(?:below|off|from)\s+(?:the\s+|its\s+)?(?:peak|highs?|entry)|trailing[\s-]+stop\s+(?:of\s+|at\s+)?(\d+(?:\.\d+)?)\s*%`)

	// Polymarket refinements, each independent.
	momentumRe       = regexp.MustCompile(`(?:probability\s+)?momentum\s+(drops?|slows?|accelerates?|reverses?)(?:\s+(?:by\s+)?(\d+(?:\.\d+)?)\s*%)?`)
	deadlineBeforeRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|days?|d)\s+before\s+resolution`)
	deadlineRemainRe = regexp.MustCompile(`(?:less\s+than\s+|under\s+)?(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|days?|d)\s+(?:remaining|left)`)
	liquidityRe      = regexp.MustCompile(`(?:liquidity|volume)\s+(?:above|over|exceeds|reaches)\s+\$?(\d[\d,]*(?:\.\d+)?)\s*([kmb])?\b`)
	changeRateRe     = regexp.MustCompile(`(?:probability\s+)?change\s+rate\s+(slows|exceeds)\s+(?:to\s+|below\s+|above\s+)?(\d+(?:\.\d+)?)\s*%`)
	probBelowRe      = regexp.MustCompile(`probability\s+(?:stays?|falls?|drops?)\s+below\s+(\d+(?:\.\d+)?)\s*%`)
	probExceedsRe    = regexp.MustCompile(`probability\s+(?:exceeds|stays?\s+above|rises?\s+above)\s+(\d+(?:\.\d+)?)\s*%`)
	probOutsideRe    = regexp.MustCompile(`probability\s+(?:moves?\s+|goes?\s+)?outside\s+(?:the\s+)?(\d+(?:\.\d+)?)\s*(?:%\s*)?(?:-|–|to)\s*(\d+(?:\.\d+)?)\s*%`)

	// Exit logic across all conditions.
	anyConditionRe = regexp.MustCompile(`\b(?:any|either|or)\s+(?:of\s+(?:these|the|my)\s+)?conditions?\b`)

	// Direction keywords.
	longRe  = regexp.MustCompile(`\b(long|buy)\b`)
	shortRe = regexp.MustCompile(`\b(short|sell)\b`)

	// Multi-event combination logic.
	anyEventRe = regexp.MustCompile(`\b(?:any|either|or)\s+(?:of\s+(?:these|the)\s+)?(?:events?|markets?)\b`)

	// Position-size adjustments, swept globally.
	adjustIncreaseRe = regexp.MustCompile(`increase\s+(?:position\s+)?(?:size\s+)?by\s+(\d+(?:\.\d+)?)\s*%\s+(?:if|when)\s+(?:the\s+)?probability\s+(?:reaches|hits|exceeds|rises?\s+(?:to|above))\s+(\d+(?:\.\d+)?)\s*%`)
	adjustDecreaseRe = regexp.MustCompile(`(?:decrease|reduce)\s+(?:position\s+)?(?:size\s+)?by\s+(\d+(?:\.\d+)?)\s*%\s+(?:if|when)\s+(?:the\s+)?probability\s+(?:drops?|falls?)\s+(?:to|below)\s+(\d+(?:\.\d+)?)\s*%`)

	// Quoted Polymarket event clauses; runs against the raw input so the
	// event name keeps its casing. Straight and curly quotes accepted.
	quotedEventRe = regexp.MustCompile(`(?i)["'“”‘’]([^"'“”‘’]+)["'“”‘’]\s*(?:probability|prob|odds)?\s*(?:≥|>=|>|reaches|hits|exceeds|above|over|at\s+least)?\s*(\d+(?:\.\d+)?)\s*%`)

	// Fallback event recovery, tried only when no quoted clause matched
	// and the input carries a Polymarket-ish keyword.
	polymarketHintRe  = regexp.MustCompile(`\b(polymarket|probability|odds|prediction\s+market)\b`)
	contextEventRe    = regexp.MustCompile(`(?i)\b(?:if|when|after)\s+(?:the\s+)?(?:polymarket\s+)?(?:market\s+|event\s+)?([a-z][a-z0-9 -]{2,60}?)\s+(?:probability|odds|chance)\s*(?:≥|>=|reaches|hits|exceeds|is|above|over)?\s*(\d+(?:\.\d+)?)\s*%`)
	polymarketNamedRe = regexp.MustCompile(`(?i)\bpolymarket\s+(?:market\s+|event\s+)?(?:on\s+)?([a-z0-9][a-z0-9 -]{2,60}?)\s+(?:at\s+|hits\s+|reaches\s+)?(\d+(?:\.\d+)?)\s*%`)
	probNearKeywordRe = regexp.MustCompile(`(?:probability|odds|chance)[^%\d]{0,30}?(\d+(?:\.\d+)?)\s*%`)

	// Open interest: absolute level takes precedence over windowed change.
	oiAbsRe = regexp.MustCompile(`(?:open\s+interest|oi)\s+(?:above|over|exceeds)\s+\$?(\d+(?:\.\d+)?)\s*([kmb])\b`)
	oiRelRe = regexp.MustCompile(`(?:open\s+interest|oi)\s+(rises?|increases?|climbs?|falls?|drops?|decreases?)\s+(?:by\s+)?(\d+(?:\.\d+)?)\s*%`)

	oiWindow24hRe = regexp.MustCompile(`\b(?:24h|daily)\b`)
	oiWindow1hRe  = regexp.MustCompile(`\b(?:1h|hourly)\b`)
	oiWindow7dRe  = regexp.MustCompile(`\b(?:7d|weekly)\b`)

	// Price level: matched with surrounding context so OI/liquidity
	// dollar amounts are not misread as price levels.
	priceRe = regexp.MustCompile(`(?:([a-z&]+)\s+)?(above|below)\s+\$(\d[\d,]*(?:\.\d+)?)\s*([kmb])?`)

	// Risk parameters.
	leverageXRe    = regexp.MustCompile(`\b(\d+)\s*x\b`)
	leverageWordRe = regexp.MustCompile(`leverage\s+(?:of\s+|at\s+)?(\d+)`)
	stopLossRe     = regexp.MustCompile(`(?:stop[\s-]*loss|\bsl\b)\s*(?:of\s+|at\s+)?(\d+(?:\.\d+)?)\s*%`)
	takeProfitRe   = regexp.MustCompile(`(?:take[\s-]*profit|\btp\b)\s*(?:of\s+|at\s+)?(\d+(?:\.\d+)?)\s*%`)
)
