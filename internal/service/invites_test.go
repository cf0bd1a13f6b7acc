package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"squadup-app/internal/model"
	"squadup-app/internal/store"
)

func TestTeamInvite(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, store.NewMemoryStore())
	team := mustTeam(t, svc, TeamInput{Name: "Inviters"})

	ticket, err := svc.CreateTeamInvite(ctx, team.Team.ID, "Robin", "robin@example.com")
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	if !strings.HasPrefix(ticket.Token, ticket.Invite.ID+".") {
		t.Fatalf("token %q does not carry invite id", ticket.Token)
	}
	if strings.Contains(ticket.Invite.SecretHash, strings.TrimPrefix(ticket.Token, ticket.Invite.ID+".")) {
		t.Fatal("secret stored in clear")
	}

	inv, err := svc.GetInvite(ctx, ticket.Token)
	if err != nil || inv.InvitedName != "Robin" {
		t.Fatalf("get invite: %+v %v", inv, err)
	}
	if _, err := svc.GetInvite(ctx, ticket.Invite.ID+".wrong"); !errors.Is(err, model.ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound for wrong secret, got %v", err)
	}
	if _, err := svc.GetInvite(ctx, "no-dot"); !errors.Is(err, model.ErrInvalidInviteToken) {
		t.Fatalf("expected ErrInvalidInviteToken, got %v", err)
	}

	accepted, err := svc.AcceptInvite(ctx, ticket.Token, "", "")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Player.Name != "Robin" || accepted.Player.TeamID != team.Team.ID || accepted.Player.Invited {
		t.Fatalf("unexpected player %+v", accepted.Player)
	}
	if !accepted.Invite.Accepted {
		t.Fatal("invite not marked accepted")
	}
	if _, err := svc.AcceptInvite(ctx, ticket.Token, "Again", ""); !errors.Is(err, model.ErrInviteAccepted) {
		t.Fatalf("expected ErrInviteAccepted, got %v", err)
	}

	got := mustGetTeam(t, svc, team.Team.ID)
	if len(got.Members) != 1 {
		t.Fatalf("expected invitee on team, got %d members", len(got.Members))
	}

	if _, err := svc.CreateTeamInvite(ctx, "missing", "", ""); !errors.Is(err, model.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestMatchInvite(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	svc := newService(t, store.NewMemoryStore(), rec)
	m := mustMatch(t, svc, MatchInput{})

	first, err := svc.CreateMatchInvite(ctx, m.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	second, err := svc.CreateMatchInvite(ctx, m.ID)
	if err != nil {
		t.Fatalf("create second invite: %v", err)
	}

	accepted, err := svc.AcceptInvite(ctx, first.Token, "Walk In", "")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Player.TeamID != "" {
		t.Fatalf("match invitee should have no team, got %q", accepted.Player.TeamID)
	}
	detail := mustGetMatch(t, svc, m.ID)
	if len(detail.SideA) != 1 || detail.SideA[0].ID != accepted.Player.ID {
		t.Fatalf("expected invitee on side A, got %+v", detail.SideA)
	}
	if kinds := rec.kinds(); len(kinds) != 1 || kinds[0] != model.EventAssigned {
		t.Fatalf("expected one assigned event, got %v", kinds)
	}

	if _, err := svc.ToggleLock(ctx, m.ID); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := svc.AcceptInvite(ctx, second.Token, "Late", ""); !errors.Is(err, model.ErrMatchLocked) {
		t.Fatalf("expected ErrMatchLocked, got %v", err)
	}
	players, err := svc.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 1 {
		t.Fatalf("rejected invite must not create a player, got %d", len(players))
	}
}
