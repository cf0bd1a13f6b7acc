package service

import (
	"context"
	"testing"

	"squadup-app/internal/model"
)

func mustTeam(t *testing.T, svc *Service, in TeamInput) TeamDetail {
	t.Helper()
	d, err := svc.CreateTeam(context.Background(), in)
	if err != nil {
		t.Fatalf("create team %q: %v", in.Name, err)
	}
	return d
}

func mustPlayer(t *testing.T, svc *Service, teamID string, in PlayerInput) PlayerDetail {
	t.Helper()
	d, err := svc.AddPlayer(context.Background(), teamID, in)
	if err != nil {
		t.Fatalf("add player %q: %v", in.Name, err)
	}
	return d
}

func mustMatch(t *testing.T, svc *Service, in MatchInput) model.Match {
	t.Helper()
	m, err := svc.CreateMatch(context.Background(), in)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

func mustGetTeam(t *testing.T, svc *Service, id string) TeamDetail {
	t.Helper()
	d, err := svc.GetTeam(context.Background(), id)
	if err != nil {
		t.Fatalf("get team %s: %v", id, err)
	}
	return d
}

func mustGetMatch(t *testing.T, svc *Service, id string) MatchDetail {
	t.Helper()
	d, err := svc.GetMatch(context.Background(), id)
	if err != nil {
		t.Fatalf("get match %s: %v", id, err)
	}
	return d
}

func mustHome(t *testing.T, svc *Service) Home {
	t.Helper()
	h, err := svc.Home(context.Background())
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	return h
}
