// Package roster splits a pool of rated players into two sides.
package roster

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
)

type Policy string

const (
	PolicyShuffle Policy = "shuffle"
	PolicyBalance Policy = "balance"
)

// Entry is a pool member. The pool order is the tie-breaker for equal ratings.
type Entry struct {
	ID     string
	Rating int
}

type Partition struct {
	SideA []string
	SideB []string
}

func (p Partition) Len() int { return len(p.SideA) + len(p.SideB) }

// Balancer holds the random source used by Shuffle.
type Balancer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBalancer shuffles with the runtime's random source.
func NewBalancer() *Balancer {
	return &Balancer{}
}

// NewSeededBalancer gives reproducible shuffles.
func NewSeededBalancer(seed uint64) *Balancer {
	return &Balancer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (b *Balancer) Split(policy Policy, pool []Entry) (Partition, error) {
	switch policy {
	case PolicyShuffle:
		return b.Shuffle(pool), nil
	case PolicyBalance:
		return Balance(pool), nil
	}
	return Partition{}, fmt.Errorf("roster: unknown policy %q", policy)
}

// Shuffle permutes a copy of the pool uniformly and puts the first
// floor(n/2) players on side A.
func (b *Balancer) Shuffle(pool []Entry) Partition {
	ids := make([]string, len(pool))
	for i, e := range pool {
		ids[i] = e.ID
	}
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if b.rng == nil {
		rand.Shuffle(len(ids), swap)
	} else {
		b.mu.Lock()
		b.rng.Shuffle(len(ids), swap)
		b.mu.Unlock()
	}
	half := len(ids) / 2
	return Partition{
		SideA: append([]string{}, ids[:half]...),
		SideB: append([]string{}, ids[half:]...),
	}
}

// Balance walks the pool from the highest rating down and gives each player
// to the side with the lower running total, side A on a tie.
func Balance(pool []Entry) Partition {
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(x, y Entry) int { return y.Rating - x.Rating })

	out := Partition{SideA: []string{}, SideB: []string{}}
	sumA, sumB := 0, 0
	for _, e := range sorted {
		if sumA <= sumB {
			out.SideA = append(out.SideA, e.ID)
			sumA += e.Rating
		} else {
			out.SideB = append(out.SideB, e.ID)
			sumB += e.Rating
		}
	}
	return out
}
