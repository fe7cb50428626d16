package model

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// EmptySlotName is the site's word for a vacant roster position.
const EmptySlotName = "Libre"

// Player is one roster entry. Identity for caching purposes is the name
// alone: two entries with the same name are the same person.
type Player struct {
	Name         string
	Level        *float64 //nil until resolved
	ProfileLink  string
	Position     string
	RankingScore float64
}

// IsEmpty reports whether this entry is the vacant-slot sentinel rather
// than a real person.
func (p Player) IsEmpty() bool {
	name := strings.TrimSpace(p.Name)
	return name == "" || strings.EqualFold(name, EmptySlotName)
}

// EmptyPlayer returns the sentinel substituted for a vacant slot.
func EmptyPlayer() Player {
	return Player{Name: EmptySlotName}
}

// LevelBand is the inclusive skill range a listing advertises. The zero
// band (0,0) means the match is open to all levels.
type LevelBand struct {
	Min float64
	Max float64
}

// Open reports whether the band places no restriction on level.
func (b LevelBand) Open() bool {
	return b.Min == 0 && b.Max == 0
}

// Contains reports whether a player of the given level fits the band.
func (b LevelBand) Contains(level float64) bool {
	if b.Open() {
		return true
	}
	return b.Min <= level && level <= b.Max
}

func (b LevelBand) String() string {
	if b.Open() {
		return "tous niveaux"
	}
	return fmt.Sprintf("%.2f - %.2f", b.Min, b.Max)
}

// longCourts are the courts the club books in 90 minute blocks; every
// other court runs 60.
var longCourts = mapset.NewSet("COURT 1", "COURT 2", "COURT 5")

// DurationFor derives the booking length in minutes from the court label.
func DurationFor(court string) int {
	if longCourts.Contains(strings.ToUpper(strings.TrimSpace(court))) {
		return 90
	}
	return 60
}

// Match is one grid entry. It is assembled once by the builder and never
// mutated afterwards; a later scan producing the same logical match is
// recognized through the stable hash, not by updating this value.
type Match struct {
	Start time.Time
	Court string
	Band  LevelBand
	TeamA [2]Player
	TeamB [2]Player
	//derived at construction
	Duration  int
	OpenSlots int
}

// NewMatch assembles a match record. Duration and the open slot count are
// derived here, never set by callers.
func NewMatch(start time.Time, court string, band LevelBand, teamA, teamB [2]Player) Match {
	m := Match{
		Start: start,
		Court: court,
		Band:  band,
		TeamA: teamA,
		TeamB: teamB,
	}
	m.Duration = DurationFor(court)
	for _, p := range m.players() {
		if p.IsEmpty() {
			m.OpenSlots++
		}
	}
	return m
}

func (m *Match) players() []Player {
	return []Player{m.TeamA[0], m.TeamA[1], m.TeamB[0], m.TeamB[1]}
}

// ActivePlayers returns the named players across both teams, skipping open
// slots.
func (m *Match) ActivePlayers() []Player {
	var active []Player
	for _, p := range m.players() {
		if !p.IsEmpty() {
			active = append(active, p)
		}
	}
	return active
}

// StableHash identifies a match across independent runs: the same start
// time, court and four player names always digest to the same value, and
// changing any one of them changes it.
func (m *Match) StableHash() uint64 {
	key := fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		m.Start.Format(time.RFC3339),
		m.Court,
		m.TeamA[0].Name, m.TeamA[1].Name,
		m.TeamB[0].Name, m.TeamB[1].Name,
	)
	sum := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint64(sum[:8])
}

func (m *Match) String() string {
	return fmt.Sprintf("[%s] %s (%s) %dmin, needs %d",
		m.Start.Format("2006-01-02 15:04"), m.Court, m.Band, m.Duration, m.OpenSlots)
}
