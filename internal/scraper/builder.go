package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-padel-watcher/internal/model"
)

const (
	// the header anchor renders the court label padded to a fixed width,
	// a separator character, then the start time; there is no delimiter
	// to split on
	courtLabelWidth = 8
	startTimeOffset = 9
)

var levelBandRe = regexp.MustCompile(`Niveaux:\s*([\d,]+)\s*-\s*([\d,]+)`)

// openBandPhrase is the listing text for matches open to all levels.
const openBandPhrase = "tous les niveaux"

// rosterSlots are the four fixed positions in the order the grid renders
// them: two per team.
var rosterSlots = [4]string{"EquipoA_ctl00", "EquipoA_ctl01", "EquipoB_ctl00", "EquipoB_ctl01"}

// RosterError wraps a roster fragment that is neither a player nor the
// vacant token. In strict mode the scanner treats it as fatal, since it
// means the page layout changed under us.
type RosterError struct {
	Slot string
	Err  error
}

func (e *RosterError) Error() string {
	return fmt.Sprintf("roster slot %s: %v", e.Slot, e.Err)
}

func (e *RosterError) Unwrap() error {
	return e.Err
}

// ParseLevelBand parses the advertised skill range. Accepted shapes are
// "Niveaux: <min> - <max>" with comma decimals, or the all-levels phrase
// which maps to the open band (0,0).
func ParseLevelBand(text string) (model.LevelBand, error) {
	if groups := levelBandRe.FindStringSubmatch(text); groups != nil {
		min, err := ParseLevel(groups[1])
		if err != nil {
			return model.LevelBand{}, &ParseError{Text: text}
		}
		max, err := ParseLevel(groups[2])
		if err != nil {
			return model.LevelBand{}, &ParseError{Text: text}
		}
		if min > max {
			return model.LevelBand{}, &ParseError{Text: text}
		}
		return model.LevelBand{Min: min, Max: max}, nil
	}
	if strings.EqualFold(strings.TrimSpace(text), openBandPhrase) {
		return model.LevelBand{}, nil
	}
	return model.LevelBand{}, &ParseError{Text: text}
}

// SplitHeader cuts a header caption into court label and start time at the
// site's fixed character offset.
func SplitHeader(text string) (court, startTime string, err error) {
	if len(text) <= startTimeOffset {
		return "", "", &ParseError{Text: text}
	}
	return strings.TrimSpace(text[:courtLabelWidth]), strings.TrimSpace(text[startTimeOffset:]), nil
}

// Builder assembles one grid section into a Match.
type Builder struct {
	resolver *Resolver
}

func NewBuilder(resolver *Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build parses the section starting at a header div, stamping the match
// with the given calendar day (the page only shows a time of day). It
// returns (nil, nil) for sections without a level description, which is how
// the grid marks blocked or closed slots.
func (b *Builder) Build(header *goquery.Selection, day time.Time) (*model.Match, error) {
	anchor := header.Find(`a[id$="_HyperLinkHorario"]`).First()
	if anchor.Length() == 0 {
		return nil, nil
	}
	section := header.NextAllFiltered("div").First()
	if section.Length() == 0 {
		return nil, nil
	}

	bandText := strings.TrimSpace(section.Find(`span[id$="LabelDescripcionNiveles"]`).First().Text())
	if bandText == "" {
		return nil, nil
	}
	band, err := ParseLevelBand(bandText)
	if err != nil {
		return nil, err
	}

	court, startText, err := SplitHeader(strings.TrimSpace(anchor.Text()))
	if err != nil {
		return nil, err
	}
	clock, err := time.Parse("15:04", startText)
	if err != nil {
		return nil, &ParseError{Text: startText}
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())

	var players [4]model.Player
	for i, slot := range rosterSlots {
		player, err := b.buildPlayer(section, slot)
		if err != nil {
			return nil, err
		}
		players[i] = player
	}

	match := model.NewMatch(start, court, band,
		[2]model.Player{players[0], players[1]},
		[2]model.Player{players[2], players[3]},
	)
	return &match, nil
}

func (b *Builder) buildPlayer(section *goquery.Selection, slot string) (model.Player, error) {
	span := section.Find(fmt.Sprintf("span[id$=%q]", slot+"_WUCParticipantePartidaCuadro_LabelTexto")).First()
	if span.Length() == 0 {
		return model.EmptyPlayer(), nil
	}

	info, err := ParsePlayerFragment(span.Text())
	if errors.Is(err, ErrEmptySlot) {
		return model.EmptyPlayer(), nil
	}
	if err != nil {
		return model.Player{}, &RosterError{Slot: slot, Err: err}
	}

	link, _ := section.Find(fmt.Sprintf("a[id$=%q]", slot+"_WUCParticipantePartidaCuadro_HyperLinkJugador")).First().Attr("href")
	player := model.Player{
		Name:        info.Name,
		Level:       info.Level,
		ProfileLink: link,
		Position:    info.Position,
	}

	//levels missing from the listing are resolved before assembly
	if player.Level == nil {
		if err := b.resolver.Resolve(&player); err != nil {
			return model.Player{}, err
		}
	}
	return player, nil
}
