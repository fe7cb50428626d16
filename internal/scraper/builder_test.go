package scraper

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-padel-watcher/internal/model"
)

// sectionHTML renders one grid section the way the site does: a header div
// with the fixed-width caption anchor, followed by a sibling div with the
// level description and the four roster slots.
func sectionHTML(prefix, caption, band string, players [4]string) string {
	var b strings.Builder
	idBase := "ctl00_DataListPartidas_" + prefix + "_WUCElementoPartidaCuadro"

	fmt.Fprintf(&b, `<div class="gridviewestilocabecera"><a id="%s_HyperLinkHorario" href="Partida.aspx?p=%s">%s</a></div>`,
		idBase, prefix, caption)
	b.WriteString(`<div class="contenedoresBannersPartidas">`)
	if band != "" {
		fmt.Fprintf(&b, `<span id="%s_LabelDescripcionNiveles">%s</span>`, idBase, band)
	}
	for i, slot := range rosterSlots {
		if players[i] == "" {
			continue
		}
		fmt.Fprintf(&b, `<span id="%s_%s_WUCParticipantePartidaCuadro_LabelTexto">%s</span>`, idBase, slot, players[i])
		fmt.Fprintf(&b, `<a id="%s_%s_WUCParticipantePartidaCuadro_HyperLinkJugador" href="Jugador.aspx?j=%s%d"></a>`,
			idBase, slot, prefix, i)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func firstHeader(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + html + "</body></html>"))
	require.NoError(t, err)
	header := doc.Find("div.gridviewestilocabecera").First()
	require.Equal(t, 1, header.Length())
	return header
}

var testDay = time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

func TestBuildFullSection(t *testing.T) {
	fetcher := &stubFetcher{paths: map[string]string{
		"Jugador.aspx?j=ctl032": profileHTML("2,80", "152,4"),
	}}
	b := NewBuilder(NewResolver(fetcher))

	html := sectionHTML("ctl03", "COURT 1  20:00", "Niveaux: 1,0 - 3,0",
		[4]string{"2,5-Jean Dupont (dr)", "Libre", "Marie Curie (gauche)", "Libre"})

	match, err := b.Build(firstHeader(t, html), testDay)
	require.NoError(t, err)
	require.NotNil(t, match)

	assert.Equal(t, "COURT 1", match.Court)
	assert.Equal(t, time.Date(2026, 9, 3, 20, 0, 0, 0, time.UTC), match.Start)
	assert.Equal(t, model.LevelBand{Min: 1.0, Max: 3.0}, match.Band)
	assert.Equal(t, 90, match.Duration)
	assert.Equal(t, 2, match.OpenSlots)

	jean := match.TeamA[0]
	assert.Equal(t, "Jean Dupont", jean.Name)
	require.NotNil(t, jean.Level)
	assert.InDelta(t, 2.5, *jean.Level, 0.001)
	assert.Equal(t, "dr", jean.Position)
	assert.Equal(t, "Jugador.aspx?j=ctl030", jean.ProfileLink)

	assert.True(t, match.TeamA[1].IsEmpty())
	assert.True(t, match.TeamB[1].IsEmpty())

	//Marie had no inline level: resolved from her profile page
	marie := match.TeamB[0]
	assert.Equal(t, "Marie Curie", marie.Name)
	require.NotNil(t, marie.Level)
	assert.InDelta(t, 2.8, *marie.Level, 0.001)
	assert.InDelta(t, 152.4, marie.RankingScore, 0.001)
	assert.Equal(t, 1, fetcher.pathCalls)
}

func TestBuildOpenBand(t *testing.T) {
	b := NewBuilder(NewResolver(&stubFetcher{}))
	html := sectionHTML("ctl04", "COURT 3  09:30", "Tous les niveaux",
		[4]string{"Libre", "Libre", "Libre", "Libre"})

	match, err := b.Build(firstHeader(t, html), testDay)
	require.NoError(t, err)
	require.NotNil(t, match)

	assert.True(t, match.Band.Open())
	assert.Equal(t, 60, match.Duration)
	assert.Equal(t, 4, match.OpenSlots)
	assert.Equal(t, time.Date(2026, 9, 3, 9, 30, 0, 0, time.UTC), match.Start)
}

func TestBuildInactiveSection(t *testing.T) {
	b := NewBuilder(NewResolver(&stubFetcher{}))

	//no level description means a blocked or closed slot, not an error
	html := sectionHTML("ctl05", "COURT 2  18:00", "", [4]string{})
	match, err := b.Build(firstHeader(t, html), testDay)
	assert.NoError(t, err)
	assert.Nil(t, match)
}

func TestBuildHeaderWithoutAnchor(t *testing.T) {
	b := NewBuilder(NewResolver(&stubFetcher{}))
	header := firstHeader(t, `<div class="gridviewestilocabecera"><span>filler</span></div>`)

	match, err := b.Build(header, testDay)
	assert.NoError(t, err)
	assert.Nil(t, match)
}

func TestBuildMalformedBand(t *testing.T) {
	b := NewBuilder(NewResolver(&stubFetcher{}))
	html := sectionHTML("ctl06", "COURT 2  18:00", "Niveau inconnu", [4]string{})

	_, err := b.Build(firstHeader(t, html), testDay)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestBuildMalformedRosterFragment(t *testing.T) {
	b := NewBuilder(NewResolver(&stubFetcher{}))
	html := sectionHTML("ctl07", "COURT 2  18:00", "Niveaux: 1,0 - 2,0",
		[4]string{"@@@@", "Libre", "Libre", "Libre"})

	_, err := b.Build(firstHeader(t, html), testDay)
	var rosterErr *RosterError
	require.ErrorAs(t, err, &rosterErr)
	assert.Equal(t, "EquipoA_ctl00", rosterErr.Slot)
}

func TestBuildMissingSlotSpanIsEmpty(t *testing.T) {
	b := NewBuilder(NewResolver(&stubFetcher{}))
	html := sectionHTML("ctl08", "COURT 2  18:00", "Niveaux: 1,0 - 2,0",
		[4]string{"2,1-Ana Gomez (dr)", "", "", ""})

	match, err := b.Build(firstHeader(t, html), testDay)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 3, match.OpenSlots)
}

func TestBuildResolverFailureAbortsMatch(t *testing.T) {
	//profile fetch fails: the match cannot be completed
	b := NewBuilder(NewResolver(&stubFetcher{pathErr: fmt.Errorf("connection refused")}))
	html := sectionHTML("ctl09", "COURT 2  18:00", "Niveaux: 1,0 - 2,0",
		[4]string{"Marie Curie (gauche)", "Libre", "Libre", "Libre"})

	_, err := b.Build(firstHeader(t, html), testDay)
	require.Error(t, err)

	var rosterErr *RosterError
	assert.False(t, errors.As(err, &rosterErr), "transport failure must not be classified as a layout change")
}

func TestSplitHeader(t *testing.T) {
	tests := []struct {
		text  string
		court string
		start string
		fails bool
	}{
		{text: "COURT 1  20:00", court: "COURT 1", start: "20:00"},
		{text: "COURT 10 09:30", court: "COURT 10", start: "09:30"},
		{text: "COURT 2  7:15", court: "COURT 2", start: "7:15"},
		{text: "COURT 1", fails: true},
		{text: "", fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			court, start, err := SplitHeader(tt.text)
			if tt.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.court, court)
			assert.Equal(t, tt.start, start)
		})
	}
}

func TestParseLevelBand(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		band  model.LevelBand
		fails bool
	}{
		{name: "numeric range", text: "Niveaux: 1,0 - 3,5", band: model.LevelBand{Min: 1.0, Max: 3.5}},
		{name: "range without spacing", text: "Niveaux:2,25-3,0", band: model.LevelBand{Min: 2.25, Max: 3.0}},
		{name: "all levels sentinel", text: "Tous les niveaux", band: model.LevelBand{}},
		{name: "sentinel case-insensitive", text: "tous les NIVEAUX", band: model.LevelBand{}},
		{name: "inverted range", text: "Niveaux: 3,0 - 1,0", fails: true},
		{name: "unknown shape", text: "Niveau inconnu", fails: true},
		{name: "empty", text: "", fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, err := ParseLevelBand(tt.text)
			if tt.fails {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.band, band)
		})
	}
}
