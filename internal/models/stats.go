package models

import (
	"encoding/json"
	"math"
)

// TeamStats is the canonical per-team season stat line used by the
// prediction engine. It is derived fresh from the provider feed on
// every request and never persisted.
type TeamStats struct {
	Basic    BasicStats    `json:"basic"`
	Shooting ShootingStats `json:"shooting"`
	Special  SpecialStats  `json:"special"`
}

// BasicStats covers record and goal totals
type BasicStats struct {
	GamesPlayed         float64 `json:"gamesPlayed"`
	Wins                float64 `json:"wins"`
	Losses              float64 `json:"losses"`
	OTLosses            float64 `json:"otLosses"`
	Points              float64 `json:"points"`
	GoalsFor            float64 `json:"goalsFor"`
	GoalsAgainst        float64 `json:"goalsAgainst"`
	GoalDifferential    float64 `json:"goalDifferential"`
	GoalsForPerGame     float64 `json:"goalsForPerGame"`
	GoalsAgainstPerGame float64 `json:"goalsAgainstPerGame"`
}

// ShootingStats covers shot volume and conversion rates
type ShootingStats struct {
	ShotsForPerGame     float64 `json:"shotsForPerGame"`
	ShotsAgainstPerGame float64 `json:"shotsAgainstPerGame"`
	ShootingPct         float64 `json:"shootingPct"`
	SavePct             float64 `json:"savePct"`
}

// SpecialStats covers special teams and faceoffs
type SpecialStats struct {
	PowerPlayPct   float64 `json:"powerPlayPct"`
	PenaltyKillPct float64 `json:"penaltyKillPct"`
	FaceoffWinPct  float64 `json:"faceoffWinPct"`
}

// SeasonSummaryInput mirrors one season record from the NHL stats feed.
// Every numeric field is optional; the feed regularly omits or nulls
// fields for young or relocated franchises.
type SeasonSummaryInput struct {
	SeasonID *int `json:"seasonId,omitempty"`

	GamesPlayed  *float64 `json:"gamesPlayed,omitempty"`
	Wins         *float64 `json:"wins,omitempty"`
	Losses       *float64 `json:"losses,omitempty"`
	OTLosses     *float64 `json:"otLosses,omitempty"`
	Points       *float64 `json:"points,omitempty"`
	GoalsFor     *float64 `json:"goalsFor,omitempty"`
	GoalsAgainst *float64 `json:"goalsAgainst,omitempty"`

	GoalsForPerGame     *float64 `json:"goalsForPerGame,omitempty"`
	GoalsAgainstPerGame *float64 `json:"goalsAgainstPerGame,omitempty"`
	ShotsForPerGame     *float64 `json:"shotsForPerGame,omitempty"`
	ShotsAgainstPerGame *float64 `json:"shotsAgainstPerGame,omitempty"`

	PowerPlayPct   *float64 `json:"powerPlayPct,omitempty"`
	PenaltyKillPct *float64 `json:"penaltyKillPct,omitempty"`
	FaceoffWinPct  *float64 `json:"faceoffWinPct,omitempty"`
}

// safeNumber substitutes 0 for missing or non-finite values so that
// downstream arithmetic never sees NaN or Inf. This is a deliberate
// policy: a zero stat line still produces a (neutral) prediction.
func safeNumber(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToTeamStats converts a raw season record into the canonical stat
// line, defaulting every absent field to 0 and deriving shooting and
// save percentages from per-game rates.
func (s *SeasonSummaryInput) ToTeamStats() TeamStats {
	gf := safeNumber(s.GoalsFor)
	ga := safeNumber(s.GoalsAgainst)
	gfpg := safeNumber(s.GoalsForPerGame)
	gapg := safeNumber(s.GoalsAgainstPerGame)
	sfpg := safeNumber(s.ShotsForPerGame)
	sapg := safeNumber(s.ShotsAgainstPerGame)

	var shootingPct, savePct float64
	if sfpg > 0 {
		shootingPct = round2(gfpg / sfpg * 100)
	}
	if sapg > 0 {
		savePct = round2((sapg - gapg) / sapg * 100)
	}

	return TeamStats{
		Basic: BasicStats{
			GamesPlayed:         safeNumber(s.GamesPlayed),
			Wins:                safeNumber(s.Wins),
			Losses:              safeNumber(s.Losses),
			OTLosses:            safeNumber(s.OTLosses),
			Points:              safeNumber(s.Points),
			GoalsFor:            gf,
			GoalsAgainst:        ga,
			GoalDifferential:    gf - ga,
			GoalsForPerGame:     gfpg,
			GoalsAgainstPerGame: gapg,
		},
		Shooting: ShootingStats{
			ShotsForPerGame:     sfpg,
			ShotsAgainstPerGame: sapg,
			ShootingPct:         shootingPct,
			SavePct:             savePct,
		},
		Special: SpecialStats{
			PowerPlayPct:   safeNumber(s.PowerPlayPct),
			PenaltyKillPct: safeNumber(s.PenaltyKillPct),
			FaceoffWinPct:  safeNumber(s.FaceoffWinPct),
		},
	}
}

// NormalizeSeasonStats selects the season record to use (the current
// season when present, otherwise the first record returned) and
// normalizes it into TeamStats. The records come off the wire as loose
// maps; they are re-marshalled through SeasonSummaryInput so missing
// and malformed fields collapse to nil before defaulting.
func NormalizeSeasonStats(records []map[string]interface{}, currentSeasonID int) (TeamStats, bool) {
	if len(records) == 0 {
		return TeamStats{}, false
	}

	selected := records[0]
	for _, rec := range records {
		if id, ok := rec["seasonId"].(float64); ok && int(id) == currentSeasonID {
			selected = rec
			break
		}
	}

	// Keep only numeric values; strings, nulls and nested objects in a
	// field slot are treated the same as a missing field.
	numeric := make(map[string]interface{}, len(selected))
	for key, value := range selected {
		if f, ok := value.(float64); ok {
			numeric[key] = f
		}
	}

	jsonData, err := json.Marshal(numeric)
	if err != nil {
		return TeamStats{}, false
	}

	var input SeasonSummaryInput
	if err := json.Unmarshal(jsonData, &input); err != nil {
		return TeamStats{}, false
	}

	return input.ToTeamStats(), true
}
