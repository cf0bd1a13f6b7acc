package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"squadup-app/internal/lifecycle"
	"squadup-app/internal/service"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationErrors turns validator output into a field -> message map.
func validationErrors(err error) map[string]string {
	fields := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		return fields
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}

type teamRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Color       string `json:"color" validate:"omitempty,max=30"`
	Sport       string `json:"sport" validate:"omitempty,max=40"`
	Rating      *int   `json:"rating" validate:"omitempty,min=0,max=5000"`
	CaptainName string `json:"captain_name" validate:"omitempty,max=100"`
}

func (t teamRequest) input() service.TeamInput {
	return service.TeamInput{Name: t.Name, Color: t.Color, Sport: t.Sport, Rating: t.Rating, CaptainName: t.CaptainName}
}

// playerRequest serves both create and edit; the service insists on a name
// when creating.
type playerRequest struct {
	Name   string                     `json:"name" validate:"max=100"`
	Email  string                     `json:"email" validate:"omitempty,email"`
	Role   string                     `json:"role" validate:"omitempty,max=40"`
	Rating *int                       `json:"rating" validate:"omitempty,min=0,max=5000"`
	Skills map[string]json.RawMessage `json:"skills"`
	TeamID *string                    `json:"team_id"`
}

func (p playerRequest) input() (service.PlayerInput, []string) {
	skills, skipped := parseSkills(p.Skills)
	return service.PlayerInput{
		Name:   p.Name,
		Email:  p.Email,
		Role:   p.Role,
		Rating: p.Rating,
		Skills: skills,
		TeamID: p.TeamID,
	}, skipped
}

type matchRequest struct {
	Sport       string  `json:"sport" validate:"omitempty,max=40"`
	Location    string  `json:"location" validate:"omitempty,max=200"`
	ScheduledAt string  `json:"scheduled_at"`
	Team1ID     string  `json:"team1_id"`
	Team2ID     string  `json:"team2_id"`
	Stakes      float64 `json:"stakes" validate:"gte=0"`
}

func (m matchRequest) input() service.MatchInput {
	return service.MatchInput{
		Sport:       m.Sport,
		Location:    m.Location,
		ScheduledAt: service.ParseSchedule(m.ScheduledAt),
		Team1ID:     strings.TrimSpace(m.Team1ID),
		Team2ID:     strings.TrimSpace(m.Team2ID),
		Stakes:      m.Stakes,
	}
}

type assignRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Side     string `json:"side"`
	Remove   bool   `json:"remove"`
}

type completeRequest struct {
	Winner lifecycle.Outcome `json:"winner" validate:"required,oneof=A B draw"`
}

type inviteRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}
