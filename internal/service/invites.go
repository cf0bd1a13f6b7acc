package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"squadup-app/internal/ledger"
	"squadup-app/internal/lifecycle"
	"squadup-app/internal/model"
	"squadup-app/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// InviteTicket is returned once, when the invite is created. Only the bcrypt
// hash of the secret half of Token is stored.
type InviteTicket struct {
	Invite model.Invite `json:"invite"`
	Token  string       `json:"token"`
}

type AcceptedInvite struct {
	Invite model.Invite `json:"invite"`
	Player model.Player `json:"player"`
}

func newSecret() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("invite secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func splitToken(token string) (id, secret string, err error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || id == "" || secret == "" {
		return "", "", model.ErrInvalidInviteToken
	}
	return id, secret, nil
}

func (s *Service) createInvite(ctx context.Context, inv model.Invite, check func(store.Tx) error) (InviteTicket, error) {
	secret, err := newSecret()
	if err != nil {
		return InviteTicket{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return InviteTicket{}, fmt.Errorf("hash invite secret: %w", err)
	}
	inv.SecretHash = string(hash)
	inv.CreatedAt = s.now().UTC()

	err = s.store.Update(ctx, func(tx store.Tx) error {
		if err := check(tx); err != nil {
			return err
		}
		inv, err = tx.CreateInvite(ctx, inv)
		return err
	})
	if err != nil {
		return InviteTicket{}, err
	}
	s.log.Info("invite created", "invite_id", inv.ID, "context", inv.ContextType, "context_id", inv.ContextID)
	return InviteTicket{Invite: inv, Token: inv.ID + "." + secret}, nil
}

func (s *Service) CreateTeamInvite(ctx context.Context, teamID, name, email string) (InviteTicket, error) {
	inv := model.Invite{
		ContextType: model.InviteTeam,
		ContextID:   teamID,
		InvitedName: strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
	}
	return s.createInvite(ctx, inv, func(tx store.Tx) error {
		_, err := tx.GetTeam(ctx, teamID)
		return err
	})
}

func (s *Service) CreateMatchInvite(ctx context.Context, matchID string) (InviteTicket, error) {
	inv := model.Invite{ContextType: model.InviteMatch, ContextID: matchID}
	return s.createInvite(ctx, inv, func(tx store.Tx) error {
		_, err := tx.GetMatch(ctx, matchID)
		return err
	})
}

// lookupInvite resolves a token. A wrong secret reads as a missing invite.
func lookupInvite(ctx context.Context, tx store.Tx, token string) (model.Invite, error) {
	id, secret, err := splitToken(token)
	if err != nil {
		return model.Invite{}, err
	}
	inv, err := tx.GetInvite(ctx, id)
	if err != nil {
		return model.Invite{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(inv.SecretHash), []byte(secret)) != nil {
		return model.Invite{}, model.ErrInviteNotFound
	}
	return inv, nil
}

func (s *Service) GetInvite(ctx context.Context, token string) (model.Invite, error) {
	var inv model.Invite
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		inv, err = lookupInvite(ctx, tx, token)
		return err
	})
	return inv, err
}

// AcceptInvite turns the invitee into a player. A team invite adds the
// player to the team; a match invite adds a team-less player to side A of
// the match, which must still be open for roster changes.
func (s *Service) AcceptInvite(ctx context.Context, token, name, email string) (AcceptedInvite, error) {
	var out AcceptedInvite
	var m model.Match
	var sides Sides
	err := s.store.Update(ctx, func(tx store.Tx) error {
		inv, err := lookupInvite(ctx, tx, token)
		if err != nil {
			return err
		}
		if inv.Accepted {
			return model.ErrInviteAccepted
		}
		p := model.Player{
			Name:        firstNonEmpty(name, inv.InvitedName, "Guest"),
			Email:       firstNonEmpty(email, inv.Email),
			Role:        model.RolePlayer,
			SkillRating: model.DefaultRating,
			// the pending flag clears once the invite is taken up
			Invited:     false,
			CreatedAt:   s.now().UTC(),
		}
		switch inv.ContextType {
		case model.InviteTeam:
			if _, err := tx.GetTeam(ctx, inv.ContextID); err != nil {
				return err
			}
			p.TeamID = inv.ContextID
			if p, err = tx.CreatePlayer(ctx, p); err != nil {
				return err
			}
		case model.InviteMatch:
			if m, err = tx.LockMatch(ctx, inv.ContextID); err != nil {
				return err
			}
			if err := lifecycle.CheckMutable(m); err != nil {
				return err
			}
			if p, err = tx.CreatePlayer(ctx, p); err != nil {
				return err
			}
			if err := ledger.Upsert(ctx, tx, m, p.ID, model.SideA); err != nil {
				return err
			}
			if sides, err = currentSides(ctx, tx, m.ID); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invite %s: unknown context %q", inv.ID, inv.ContextType)
		}
		inv.Accepted = true
		if inv.Email == "" {
			inv.Email = p.Email
		}
		if err := tx.UpdateInvite(ctx, inv); err != nil {
			return err
		}
		out = AcceptedInvite{Invite: inv, Player: p}
		return nil
	})
	if err != nil {
		return AcceptedInvite{}, err
	}
	s.log.Info("invite accepted", "invite_id", out.Invite.ID, "player_id", out.Player.ID)
	switch out.Invite.ContextType {
	case model.InviteTeam:
		s.recomputeTeams(ctx, out.Player.TeamID)
	case model.InviteMatch:
		s.notify(ctx, model.RosterEvent{Kind: model.EventAssigned, MatchID: m.ID, Sport: m.Sport, Status: m.Status, SideA: sides.SideA, SideB: sides.SideB})
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
