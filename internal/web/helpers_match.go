package web

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"squadup-app/internal/model"
)

// parseSkills reads skill values sent as numbers or numeric strings. Values
// that are not integers in the 0-100 range are skipped and their names
// returned, sorted.
func parseSkills(raw map[string]json.RawMessage) (model.SkillSet, []string) {
	if raw == nil {
		return nil, nil
	}
	skills := model.SkillSet{}
	skipped := []string{}
	for name, value := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		v, ok := skillValue(value)
		if !ok || v < model.MinSkillValue || v > model.MaxSkillValue {
			skipped = append(skipped, name)
			continue
		}
		skills[name] = v
	}
	sort.Strings(skipped)
	return skills, skipped
}

func skillValue(raw json.RawMessage) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v, err := strconv.Atoi(n.String())
		return v, err == nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	return v, err == nil
}
