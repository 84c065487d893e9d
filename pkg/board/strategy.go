package board

import "fmt"

// Strategy biases which board roles carry the most influence in a meeting.
type Strategy string

const (
	StrategyGrowth   Strategy = "GROWTH"
	StrategySafety   Strategy = "SAFETY"
	StrategyBalanced Strategy = "BALANCED"
)

// Framing is the natural-language bias injected into the moderator system
// prompt for a given strategy.
type Framing struct {
	Focus          string
	PrimaryRoles   string
	SecondaryRoles string
	Tone           string
}

// strategyWeights maps each strategy to per-role influence weights in [0,1].
// The MODERATOR has no weight: it synthesizes, it does not opine.
var strategyWeights = map[Strategy]map[AgentRole]float64{
	StrategyGrowth:   {RoleCFO: 0.5, RoleCTO: 0.7, RoleLegal: 0.4, RoleCMO: 0.8},
	StrategySafety:   {RoleCFO: 0.8, RoleCTO: 0.6, RoleLegal: 0.9, RoleCMO: 0.4},
	StrategyBalanced: {RoleCFO: 0.6, RoleCTO: 0.6, RoleLegal: 0.6, RoleCMO: 0.6},
}

var strategyFramings = map[Strategy]Framing{
	StrategyGrowth: {
		Focus:          "aggressive scaling, market capture, and high-risk/high-reward opportunities",
		PrimaryRoles:   "CMO and CTO",
		SecondaryRoles: "CFO (for funding)",
		Tone:           "bold and visionary",
	},
	StrategySafety: {
		Focus:          "risk mitigation, legal compliance, and financial stability",
		PrimaryRoles:   "LEGAL and CFO",
		SecondaryRoles: "CTO (for security)",
		Tone:           "cautious and pragmatic",
	},
	StrategyBalanced: {
		Focus:          "sustainable growth, operational efficiency, and moderate risk",
		PrimaryRoles:   "All agents equally",
		SecondaryRoles: "Moderator (for consensus)",
		Tone:           "professional and objective",
	},
}

// WeightsFor returns the per-role influence weights for a strategy. An
// unrecognized strategy is a configuration error, never a runtime fallback.
func WeightsFor(strategy Strategy) (map[AgentRole]float64, error) {
	weights, ok := strategyWeights[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown meeting strategy: %q", strategy)
	}
	// Copy so callers can't mutate the table.
	out := make(map[AgentRole]float64, len(weights))
	for role, w := range weights {
		out[role] = w
	}
	return out, nil
}

// FramingFor returns the prompt framing for a strategy, erroring on anything
// outside the three known values.
func FramingFor(strategy Strategy) (Framing, error) {
	framing, ok := strategyFramings[strategy]
	if !ok {
		return Framing{}, fmt.Errorf("unknown meeting strategy: %q", strategy)
	}
	return framing, nil
}

// ValidStrategy reports whether s is one of the three supported strategies.
func ValidStrategy(s Strategy) bool {
	_, ok := strategyWeights[s]
	return ok
}
