package filter

import (
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"go-padel-watcher/internal/model"
)

// Predicate is a single acceptance rule. Predicates never mutate the match,
// and the pipeline result does not depend on their order.
type Predicate func(m *model.Match) bool

// Pipeline accepts a match only if every predicate does.
type Pipeline []Predicate

func (p Pipeline) Accept(m *model.Match) bool {
	for _, pred := range p {
		if !pred(m) {
			return false
		}
	}
	return true
}

// OpenSlots keeps matches with at least one free slot that are not entirely
// empty.
func OpenSlots() Predicate {
	return func(m *model.Match) bool {
		return m.OpenSlots >= 1 && m.OpenSlots <= 3
	}
}

// InFuture drops matches whose start time has already passed.
func InFuture(now func() time.Time) Predicate {
	return func(m *model.Match) bool {
		return !m.Start.Before(now())
	}
}

// Duration keeps matches booked for exactly the given number of minutes.
func Duration(minutes int) Predicate {
	return func(m *model.Match) bool {
		return m.Duration == minutes
	}
}

// LevelBand keeps matches whose advertised band covers the user's level.
// The open band accepts everyone.
func LevelBand(myLevel float64) Predicate {
	return func(m *model.Match) bool {
		return m.Band.Contains(myLevel)
	}
}

// PartnerLevel drops matches where any named player sits at or below the
// threshold. Players whose level is still unresolved are not judged.
func PartnerLevel(min float64) Predicate {
	return func(m *model.Match) bool {
		for _, p := range m.ActivePlayers() {
			if p.Level != nil && *p.Level <= min {
				return false
			}
		}
		return true
	}
}

// ExcludedNames drops matches containing any of the given players,
// case-insensitively.
func ExcludedNames(names []string) Predicate {
	excluded := mapset.NewSet[string]()
	for _, n := range names {
		excluded.Add(strings.ToLower(strings.TrimSpace(n)))
	}
	return func(m *model.Match) bool {
		for _, p := range m.ActivePlayers() {
			if excluded.Contains(strings.ToLower(strings.TrimSpace(p.Name))) {
				return false
			}
		}
		return true
	}
}
