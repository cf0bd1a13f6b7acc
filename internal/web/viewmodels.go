package web

import (
	"squadup-app/internal/model"
	"squadup-app/internal/service"
)

type playerResponse struct {
	service.PlayerDetail
	SkippedSkills []string `json:"skipped_skills,omitempty"`
}

type statusResponse struct {
	Status model.MatchStatus `json:"status"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}
