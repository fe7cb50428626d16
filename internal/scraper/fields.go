package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-padel-watcher/internal/model"
)

// ErrEmptySlot reports a fragment carrying the site's vacant-slot token
// instead of a real player. Callers substitute the sentinel player rather
// than treating it as a failure.
var ErrEmptySlot = errors.New("fragment is an empty slot")

// ParseError is an extraction failure carrying the offending text.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable fragment: %q", e.Text)
}

// PlayerInfo is the structured form of one displayed player entry.
type PlayerInfo struct {
	Level    *float64
	Name     string
	Position string
}

// optional comma-decimal level and a dash, then the name, then an optional
// parenthesized court position
var playerFragmentRe = regexp.MustCompile(`^(?:([\d,]+)-)?([\p{L}\d\s]+?)\s*(?:\(([\p{L}\d]+)\))?$`)

// normalizeFragment strips combining marks and non-printable runes so the
// grammar only ever sees plain text.
func normalizeFragment(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)

	var b strings.Builder
	for _, r := range result {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ParseLevel converts the site's comma-decimal notation ("2,13") to a
// float64.
func ParseLevel(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// ParsePlayerFragment parses one displayed player entry. It returns
// ErrEmptySlot when the fragment is the vacant-slot token and a *ParseError
// when the text does not fit the grammar; the two must be handled
// differently by callers.
func ParsePlayerFragment(raw string) (PlayerInfo, error) {
	text := normalizeFragment(raw)
	if isEmptySlotName(text) {
		return PlayerInfo{}, ErrEmptySlot
	}

	groups := playerFragmentRe.FindStringSubmatch(text)
	if groups == nil {
		return PlayerInfo{}, &ParseError{Text: raw}
	}

	info := PlayerInfo{
		Name:     strings.TrimSpace(groups[2]),
		Position: groups[3],
	}
	if isEmptySlotName(info.Name) {
		return PlayerInfo{}, ErrEmptySlot
	}

	if groups[1] != "" {
		level, err := ParseLevel(groups[1])
		if err != nil {
			return PlayerInfo{}, &ParseError{Text: raw}
		}
		info.Level = &level
	}
	return info, nil
}

func isEmptySlotName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, model.EmptySlotName)
}
