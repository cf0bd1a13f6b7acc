// Package rating derives player and team skill ratings from skill profiles.
package rating

import (
	"math"

	"squadup-app/internal/model"
)

// Member is one team member as seen by TeamRating.
type Member struct {
	Rating int
	Values []int
}

// round matches half-to-even rounding, so 82.5 becomes 82.
func round(x float64) int { return int(math.RoundToEven(x)) }

func mean(values []int) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return round(float64(total) / float64(len(values))), true
}

func orDefault(r int) int {
	if r == 0 {
		return model.DefaultRating
	}
	return r
}

// PlayerRating is the mean of the player's skill values, or prior when the
// player has none.
func PlayerRating(values []int, prior int) int {
	if r, ok := mean(values); ok {
		return r
	}
	return prior
}

// TeamRating pools every skill value of every member into one flat average.
// With no skill values at all it falls back to the mean member rating, and
// with no members it keeps prior.
func TeamRating(members []Member, prior int) int {
	if len(members) == 0 {
		return orDefault(prior)
	}
	pooled := []int{}
	for _, m := range members {
		pooled = append(pooled, m.Values...)
	}
	if r, ok := mean(pooled); ok {
		return r
	}
	ratings := make([]int, len(members))
	for i, m := range members {
		ratings[i] = orDefault(m.Rating)
	}
	r, _ := mean(ratings)
	return r
}
