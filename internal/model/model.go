package model

import (
	"strings"
	"time"
)

type Side string
type MatchStatus string
type InviteContext string

const (
	SideA Side = "A"
	SideB Side = "B"

	MatchPending   MatchStatus = "pending"
	MatchLocked    MatchStatus = "locked"
	MatchCompleted MatchStatus = "completed"

	InviteTeam  InviteContext = "team"
	InviteMatch InviteContext = "match"
)

const (
	DefaultRating = 1200
	DefaultSport  = "soccer"

	MinSkillValue = 0
	MaxSkillValue = 100

	RoleCaptain = "Captain"
	RolePlayer  = "Player"
)

func (s Side) Valid() bool { return s == SideA || s == SideB }

// Mutable reports whether roster changes are allowed in this status.
func (s MatchStatus) Mutable() bool { return s == MatchPending }

type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Sport       string    `json:"sport"`
	SkillRating int       `json:"skill_rating"`
	CaptainID   string    `json:"captain_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActiveSport falls back to the default sport for teams created without one.
func (t Team) ActiveSport() string {
	if s := strings.TrimSpace(t.Sport); s != "" {
		return s
	}
	return DefaultSport
}

type Player struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	SkillRating int       `json:"skill_rating"`
	Invited     bool      `json:"invited"`
	TeamID      string    `json:"team_id,omitempty"`
	GamesPlayed int       `json:"games_played"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Player) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "Guest"
}

type PlayerSkill struct {
	PlayerID string `json:"player_id"`
	Sport    string `json:"sport"`
	Name     string `json:"name"`
	Value    int    `json:"value"`
}

// SkillSet maps a skill name to its validated value.
type SkillSet map[string]int

type Match struct {
	ID          string      `json:"id"`
	Sport       string      `json:"sport"`
	Location    string      `json:"location"`
	ScheduledAt *time.Time  `json:"scheduled_at,omitempty"`
	Team1ID     string      `json:"team1_id,omitempty"`
	Team2ID     string      `json:"team2_id,omitempty"`
	Stakes      float64     `json:"stakes"`
	Status      MatchStatus `json:"status"`
	WinnerSide  string      `json:"winner_side,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (m Match) HasTeams() bool { return m.Team1ID != "" || m.Team2ID != "" }

func (m Match) Open() bool { return m.Team1ID == "" || m.Team2ID == "" }

type Assignment struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
	Side     Side   `json:"side"`
	Seq      int64  `json:"seq"`
}

type Invite struct {
	ID          string        `json:"id"`
	ContextType InviteContext `json:"context_type"`
	ContextID   string        `json:"context_id"`
	Email       string        `json:"email,omitempty"`
	InvitedName string        `json:"invited_name,omitempty"`
	SecretHash  string        `json:"-"`
	Accepted    bool          `json:"accepted"`
	CreatedAt   time.Time     `json:"created_at"`
}

type RosterEventKind string

const (
	EventBalanced  RosterEventKind = "roster.balanced"
	EventShuffled  RosterEventKind = "roster.shuffled"
	EventAssigned  RosterEventKind = "roster.assigned"
	EventStatus    RosterEventKind = "match.status"
	EventCompleted RosterEventKind = "match.completed"
)

// RosterEvent describes a committed change to a match roster or status.
type RosterEvent struct {
	Kind    RosterEventKind `json:"kind"`
	MatchID string          `json:"match_id"`
	Sport   string          `json:"sport"`
	Status  MatchStatus     `json:"status"`
	SideA   []string        `json:"side_a"`
	SideB   []string        `json:"side_b"`
	At      time.Time       `json:"at"`
}
