package roster

import (
	"fmt"
	"slices"
	"testing"
)

func pool(ratings ...int) []Entry {
	out := make([]Entry, len(ratings))
	for i, r := range ratings {
		out[i] = Entry{ID: fmt.Sprintf("p%d", i+1), Rating: r}
	}
	return out
}

func sum(ids []string, entries []Entry) int {
	byID := map[string]int{}
	for _, e := range entries {
		byID[e.ID] = e.Rating
	}
	total := 0
	for _, id := range ids {
		total += byID[id]
	}
	return total
}

func checkCovers(t *testing.T, p Partition, entries []Entry) {
	t.Helper()
	seen := map[string]int{}
	for _, id := range p.SideA {
		seen[id]++
	}
	for _, id := range p.SideB {
		seen[id]++
	}
	if len(seen) != len(entries) || p.Len() != len(entries) {
		t.Fatalf("partition %+v does not cover pool of %d", p, len(entries))
	}
	for _, e := range entries {
		if seen[e.ID] != 1 {
			t.Fatalf("player %s appears %d times", e.ID, seen[e.ID])
		}
	}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name  string
		pool  []Entry
		wantA []string
		wantB []string
	}{
		{"empty", nil, []string{}, []string{}},
		{"singleton", pool(1300), []string{"p1"}, []string{}},
		{"two players highest first", pool(1000, 1400), []string{"p2"}, []string{"p1"}},
		{"ties keep pool order", pool(1200, 1200, 1200, 1200), []string{"p1", "p3"}, []string{"p2", "p4"}},
		{"five players", pool(90, 80, 70, 60, 50), []string{"p1", "p4", "p5"}, []string{"p2", "p3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Balance(tt.pool)
			if !slices.Equal(got.SideA, tt.wantA) || !slices.Equal(got.SideB, tt.wantB) {
				t.Fatalf("expected A=%v B=%v, got A=%v B=%v", tt.wantA, tt.wantB, got.SideA, got.SideB)
			}
		})
	}
}

func TestBalanceDifferenceBound(t *testing.T) {
	pools := [][]Entry{
		pool(1500, 1100, 1000, 900, 1300, 1250, 700),
		pool(100, 1, 1, 1),
		pool(5, 5, 5, 5, 5, 5, 5, 5, 5),
		pool(2000, 0),
	}
	for i, p := range pools {
		got := Balance(p)
		checkCovers(t, got, p)
		maxRating := 0
		for _, e := range p {
			maxRating = max(maxRating, e.Rating)
		}
		diff := sum(got.SideA, p) - sum(got.SideB, p)
		if diff < 0 {
			diff = -diff
		}
		if diff > maxRating {
			t.Errorf("pool %d: difference %d exceeds max rating %d", i, diff, maxRating)
		}
	}
}

func TestShuffleSplitsAtHalf(t *testing.T) {
	b := NewSeededBalancer(42)
	for n := 0; n <= 9; n++ {
		p := pool(make([]int, n)...)
		got := b.Shuffle(p)
		checkCovers(t, got, p)
		if len(got.SideA) != n/2 || len(got.SideB) != n-n/2 {
			t.Errorf("n=%d: sizes %d/%d", n, len(got.SideA), len(got.SideB))
		}
	}
}

func TestShuffleLeavesPoolUntouched(t *testing.T) {
	p := pool(1, 2, 3, 4, 5, 6)
	before := slices.Clone(p)
	NewBalancer().Shuffle(p)
	if !slices.Equal(p, before) {
		t.Fatalf("pool reordered: %v", p)
	}
}

func TestSeededShuffleIsReproducible(t *testing.T) {
	p := pool(1, 2, 3, 4, 5, 6, 7, 8)
	a := NewSeededBalancer(7).Shuffle(p)
	b := NewSeededBalancer(7).Shuffle(p)
	if !slices.Equal(a.SideA, b.SideA) || !slices.Equal(a.SideB, b.SideB) {
		t.Fatalf("same seed gave %v and %v", a, b)
	}
}

func TestShuffleVaries(t *testing.T) {
	b := NewSeededBalancer(1)
	p := pool(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	first := b.Shuffle(p)
	for i := 0; i < 20; i++ {
		if next := b.Shuffle(p); !slices.Equal(next.SideA, first.SideA) {
			return
		}
	}
	t.Fatal("twenty shuffles of ten players all produced the same side A")
}

func TestSplitRejectsUnknownPolicy(t *testing.T) {
	if _, err := NewBalancer().Split("draft", pool(1, 2)); err == nil {
		t.Fatal("expected error for unknown policy")
	}
	got, err := NewBalancer().Split(PolicyBalance, pool(1000, 1400))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if !slices.Equal(got.SideA, []string{"p2"}) {
		t.Fatalf("unexpected split %+v", got)
	}
}
