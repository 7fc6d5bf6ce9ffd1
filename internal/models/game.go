package models

import (
	"strconv"
	"strings"
	"time"
)

// ScoreboardResponse is the ESPN scoreboard feed
type ScoreboardResponse struct {
	Events []GameEvent `json:"events"`
}

// GameSummaryResponse is the ESPN per-game detail feed, used by the
// reconciliation fallback path.
type GameSummaryResponse struct {
	Header struct {
		ID           string        `json:"id"`
		Competitions []Competition `json:"competitions"`
	} `json:"header"`
}

// Event reshapes the per-game detail header into a GameEvent so the
// same completion checks apply on the fallback path.
func (g *GameSummaryResponse) Event() GameEvent {
	ev := GameEvent{ID: g.Header.ID, Competitions: g.Header.Competitions}
	if len(g.Header.Competitions) > 0 {
		comp := g.Header.Competitions[0]
		ev.Date = comp.Date
		if comp.Status != nil {
			ev.Status = *comp.Status
		}
	}
	return ev
}

// GameEvent is one scheduled or completed game from the feed
type GameEvent struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Status       EventStatus   `json:"status"`
	Competitions []Competition `json:"competitions"`
}

// EventStatus wraps the feed's status block
type EventStatus struct {
	Type StatusType `json:"type"`
}

// StatusType carries the feed's redundant completion signals
type StatusType struct {
	Completed   bool   `json:"completed"`
	State       string `json:"state"`
	Description string `json:"description"`
}

// Competition holds the two competitors of a game
type Competition struct {
	Date        string       `json:"date,omitempty"`
	Status      *EventStatus `json:"status,omitempty"`
	Competitors []Competitor `json:"competitors"`
}

// Competitor is one side of a game. Score arrives as a string and is
// empty until the game is under way.
type Competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score,omitempty"`
	Team     struct {
		ID string `json:"id"`
	} `json:"team"`
}

// CompletedGame is a finished game with both final scores known
type CompletedGame struct {
	GameID     int
	HomeTeamID int
	AwayTeamID int
	HomeScore  int
	AwayScore  int
	StartTime  time.Time
}

// GameID parses the event id
func (e *GameEvent) GameID() (int, bool) {
	id, err := strconv.Atoi(e.ID)
	if err != nil {
		return 0, false
	}
	return id, true
}

// StartTime parses the event date. The feed uses minute-precision
// RFC 3339 timestamps; full-precision ones appear occasionally.
func (e *GameEvent) StartTime() time.Time {
	for _, layout := range []string{"2006-01-02T15:04Z07:00", time.RFC3339} {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Competitor returns the competitor on the given side of the first
// competition block.
func (e *GameEvent) Competitor(homeAway string) (*Competitor, bool) {
	if len(e.Competitions) == 0 {
		return nil, false
	}
	for i := range e.Competitions[0].Competitors {
		c := &e.Competitions[0].Competitors[i]
		if c.HomeAway == homeAway {
			return c, true
		}
	}
	return nil, false
}

// ScoreValue parses the competitor's score
func (c *Competitor) ScoreValue() (int, bool) {
	score, err := strconv.Atoi(strings.TrimSpace(c.Score))
	if err != nil {
		return 0, false
	}
	return score, true
}

// TeamID parses the competitor's team id
func (c *Competitor) TeamID() (int, bool) {
	id, err := strconv.Atoi(c.Team.ID)
	if err != nil {
		return 0, false
	}
	return id, true
}

// statusIndicatesCompletion checks the feed's completion signals. The
// three checks are redundant on purpose: the upstream source has been
// observed setting any subset of them for a finished game.
func statusIndicatesCompletion(st StatusType) bool {
	return st.Completed ||
		strings.EqualFold(st.State, "post") ||
		strings.Contains(strings.ToLower(st.Description), "final")
}

// IsCompleted reports whether the game is finished with both final
// scores present. A completion signal without numeric scores does not
// qualify; the result would be unusable.
func (e *GameEvent) IsCompleted() bool {
	if !statusIndicatesCompletion(e.Status.Type) {
		return false
	}
	_, ok := e.ToCompletedGame()
	return ok
}

// ToCompletedGame extracts a CompletedGame when both competitors and
// their scores are present and numeric.
func (e *GameEvent) ToCompletedGame() (*CompletedGame, bool) {
	home, ok := e.Competitor("home")
	if !ok {
		return nil, false
	}
	away, ok := e.Competitor("away")
	if !ok {
		return nil, false
	}

	gameID, ok := e.GameID()
	if !ok {
		return nil, false
	}
	homeTeamID, ok := home.TeamID()
	if !ok {
		return nil, false
	}
	awayTeamID, ok := away.TeamID()
	if !ok {
		return nil, false
	}
	homeScore, ok := home.ScoreValue()
	if !ok {
		return nil, false
	}
	awayScore, ok := away.ScoreValue()
	if !ok {
		return nil, false
	}

	return &CompletedGame{
		GameID:     gameID,
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		StartTime:  e.StartTime(),
	}, true
}
