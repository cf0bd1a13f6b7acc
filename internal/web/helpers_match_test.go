package web

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestParseSkills(t *testing.T) {
	raw := map[string]json.RawMessage{
		"pace":     json.RawMessage(`80`),
		"passing":  json.RawMessage(`" 90 "`),
		"shooting": json.RawMessage(`101`),
		"stamina":  json.RawMessage(`-1`),
		"heading":  json.RawMessage(`55.5`),
		"vision":   json.RawMessage(`null`),
		" ":        json.RawMessage(`50`),
	}
	skills, skipped := parseSkills(raw)
	if len(skills) != 2 || skills["pace"] != 80 || skills["passing"] != 90 {
		t.Fatalf("unexpected skills %v", skills)
	}
	if !slices.Equal(skipped, []string{"heading", "shooting", "stamina", "vision"}) {
		t.Fatalf("unexpected skipped %v", skipped)
	}

	if skills, skipped := parseSkills(nil); skills != nil || skipped != nil {
		t.Fatalf("nil input should mean no skill change, got %v %v", skills, skipped)
	}
}
