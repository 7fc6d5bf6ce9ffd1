package models

// TeamAdvantage is the composite strength summary derived from a
// team's stat line. HomeIceBonus is non-zero only for the home-team
// variant.
type TeamAdvantage struct {
	Offense          float64 `json:"offense"`
	Defense          float64 `json:"defense"`
	Special          float64 `json:"special"`
	HomeIceBonus     float64 `json:"homeIceBonus,omitempty"`
	EfficiencyFactor float64 `json:"efficiencyFactor"`
	MomentumFactor   float64 `json:"momentumFactor"`
}

// ZeroAdvantage is the fallback returned when advantage computation
// hits malformed input: zero composites with neutral multipliers, so a
// prediction can still be produced.
func ZeroAdvantage() TeamAdvantage {
	return TeamAdvantage{
		EfficiencyFactor: 1,
		MomentumFactor:   1,
	}
}
