package store

import (
	"context"
	"errors"

	"squadup-app/internal/model"
)

var (
	ErrReadOnly            = errors.New("store: write attempted inside a read-only view")
	ErrDuplicateAssignment = errors.New("store: player already assigned to match")
)

// Tx is the unit of work handed to View and Update callbacks. Lookups of a
// missing record return the matching model.ErrXNotFound sentinel.
type Tx interface {
	ListTeams(ctx context.Context) ([]model.Team, error)
	GetTeam(ctx context.Context, id string) (model.Team, error)
	CreateTeam(ctx context.Context, team model.Team) (model.Team, error)
	UpdateTeam(ctx context.Context, team model.Team) error
	DeleteTeam(ctx context.Context, id string) error

	ListPlayers(ctx context.Context) ([]model.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID string) ([]model.Player, error)
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	CreatePlayer(ctx context.Context, player model.Player) (model.Player, error)
	UpdatePlayer(ctx context.Context, player model.Player) error
	DeletePlayer(ctx context.Context, id string) error

	ListSkills(ctx context.Context, playerID, sport string) ([]model.PlayerSkill, error)
	ReplaceSkills(ctx context.Context, playerID, sport string, skills model.SkillSet) error

	ListMatches(ctx context.Context) ([]model.Match, error)
	GetMatch(ctx context.Context, id string) (model.Match, error)
	// LockMatch loads the match and holds its row for the rest of the
	// transaction.
	LockMatch(ctx context.Context, id string) (model.Match, error)
	CreateMatch(ctx context.Context, match model.Match) (model.Match, error)
	UpdateMatch(ctx context.Context, match model.Match) error

	ListAssignments(ctx context.Context, matchID string) ([]model.Assignment, error)
	CountAssignments(ctx context.Context, matchID string) (int, error)
	DeleteAssignments(ctx context.Context, matchID string) error
	DeleteAssignment(ctx context.Context, matchID, playerID string) error
	InsertAssignment(ctx context.Context, a model.Assignment) (model.Assignment, error)

	GetInvite(ctx context.Context, id string) (model.Invite, error)
	CreateInvite(ctx context.Context, invite model.Invite) (model.Invite, error)
	UpdateInvite(ctx context.Context, invite model.Invite) error
}

// Store runs units of work. Update commits when fn returns nil and rolls
// back otherwise. View must not be called from inside Update.
type Store interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
	Close() error
}
