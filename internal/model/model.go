// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Player positions.
const (
	PositionGoalkeeper = "Goalkeeper"
	PositionDefender   = "Defender"
	PositionMidfielder = "Midfielder"
	PositionForward    = "Forward"
)

// Injury states a player can be in.
const (
	InjuryHealthy    = "Healthy"
	InjuryMinor      = "Minor Injury"
	InjuryMajor      = "Major Injury"
	InjuryRecovering = "Recovering"
)

// Match lifecycle states. Completed and cancelled are terminal.
const (
	StatusScheduled = "scheduled"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Match types.
const (
	TypeMatch    = "match"
	TypeTraining = "training"
)

// Match outcomes.
const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultDraw = "draw"
)

// Player represents a roster member of the squad.
type Player struct {
	ID                 string     `json:"id" firestore:"id"`
	Name               string     `json:"name" firestore:"name"`
	JerseyNumber       int        `json:"jersey_number" firestore:"jerseyNumber"`
	Position           string     `json:"position" firestore:"position"`
	PreferredPositions []string   `json:"preferred_positions" firestore:"preferredPositions"`
	InjuryStatus       string     `json:"injury_status" firestore:"injuryStatus"`
	Availability       bool       `json:"availability" firestore:"availability"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty" firestore:"dateOfBirth"`
	Notes              string     `json:"notes,omitempty" firestore:"notes"`
	CreatedAt          time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time  `json:"updated_at" firestore:"updatedAt"`
}

// Substitution is one entry in a match's append-only substitution log.
type Substitution struct {
	PlayerIn  string    `json:"player_in" firestore:"playerIn"`
	PlayerOut string    `json:"player_out" firestore:"playerOut"`
	Time      time.Time `json:"time" firestore:"time"`
	Reason    string    `json:"reason" firestore:"reason"`
}

// MatchResult is required only for completed matches of type "match".
// OurScore is always recomputed from summed player goals, never trusted from input.
type MatchResult struct {
	Result        string `json:"result" firestore:"result"`
	OurScore      int    `json:"our_score" firestore:"ourScore"`
	OpponentScore int    `json:"opponent_score" firestore:"opponentScore"`
}

// PlayerPerformance is a per-player in-match record. At most one per player
// within a match; EndMatch merges incoming entries with upsert semantics.
type PlayerPerformance struct {
	PlayerID      string   `json:"player_id" firestore:"playerId"`
	Goals         int      `json:"goals" firestore:"goals"`
	Assists       int      `json:"assists" firestore:"assists"`
	YellowCards   int      `json:"yellow_cards" firestore:"yellowCards"`
	RedCards      int      `json:"red_cards" firestore:"redCards"`
	Rating        *float64 `json:"rating,omitempty" firestore:"rating"`
	PlayerOfMatch bool     `json:"player_of_match" firestore:"playerOfMatch"`
	MinutesPlayed int      `json:"minutes_played" firestore:"minutesPlayed"`
}

// Match is the aggregate for one scheduled/ongoing/completed match or
// training session. TeamSheet is the ordered list of currently fielded
// player ids and is swapped in place by substitutions. Playtime maps player
// id to accumulated minutes; it is written only at substitution time and at
// finalization, read paths derive a snapshot without mutating it.
type Match struct {
	ID            string              `json:"id" firestore:"id"`
	Date          time.Time           `json:"date" firestore:"date"`
	Type          string              `json:"type" firestore:"type"`
	Status        string              `json:"status" firestore:"status"`
	TeamSheet     []string            `json:"team_sheet" firestore:"teamSheet"`
	Substitutions []Substitution      `json:"substitutions" firestore:"substitutions"`
	Playtime      map[string]int      `json:"playtime" firestore:"playtime"`
	Duration      int                 `json:"duration" firestore:"duration"`
	Opponent      string              `json:"opponent,omitempty" firestore:"opponent"`
	Venue         string              `json:"venue,omitempty" firestore:"venue"`
	Notes         string              `json:"notes,omitempty" firestore:"notes"`
	Result        *MatchResult        `json:"match_result,omitempty" firestore:"matchResult"`
	Performances  []PlayerPerformance `json:"player_performances" firestore:"playerPerformances"`
	CreatedAt     time.Time           `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time           `json:"updated_at" firestore:"updatedAt"`
}

// SheetIndex returns the team-sheet slot of the given player, or -1 if the
// player is not currently fielded.
func (m *Match) SheetIndex(playerID string) int {
	for i, id := range m.TeamSheet {
		if id == playerID {
			return i
		}
	}
	return -1
}

// PerformanceIndex returns the index of the player's performance entry, or -1.
func (m *Match) PerformanceIndex(playerID string) int {
	for i := range m.Performances {
		if m.Performances[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

// Statistics is the materialized per-(player, match) record derived from a
// completed match. The pair is unique; repositories enforce it through the
// document id.
type Statistics struct {
	ID                 string    `json:"id" firestore:"id"`
	PlayerID           string    `json:"player_id" firestore:"playerId"`
	MatchID            string    `json:"match_id" firestore:"matchId"`
	MinutesPlayed      int       `json:"minutes_played" firestore:"minutesPlayed"`
	PositionsPlayed    []string  `json:"positions_played" firestore:"positionsPlayed"`
	Goals              int       `json:"goals" firestore:"goals"`
	Assists            int       `json:"assists" firestore:"assists"`
	YellowCards        int       `json:"yellow_cards" firestore:"yellowCards"`
	RedCards           int       `json:"red_cards" firestore:"redCards"`
	Rating             *float64  `json:"rating,omitempty" firestore:"rating"`
	PlayerOfMatch      bool      `json:"player_of_match" firestore:"playerOfMatch"`
	SubstitutionsCount int       `json:"substitutions_count" firestore:"substitutionsCount"`
	Injuries           []string  `json:"injuries,omitempty" firestore:"injuries"`
	CreatedAt          time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PlayerAggregatedStats holds calculated totals and averages for a player
// across all materialized match records. This model is designed for
// read-only query results and is not persisted directly.
type PlayerAggregatedStats struct {
	MatchesPlayed       int     `json:"matches_played"`
	TotalMinutes        int     `json:"total_minutes"`
	TotalGoals          int     `json:"total_goals"`
	TotalAssists        int     `json:"total_assists"`
	TotalYellowCards    int     `json:"total_yellow_cards"`
	TotalRedCards       int     `json:"total_red_cards"`
	TotalSubstitutions  int     `json:"total_substitutions"`
	PlayerOfMatchAwards int     `json:"player_of_match_awards"`
	AvgMinutes          float64 `json:"avg_minutes"`
	AvgRating           float64 `json:"avg_rating"`
}
