package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-padel-watcher/internal/model"
)

// MarkupFetcher is the transport the scraper consumes. Implementations
// return raw page markup; failures are plain transport errors.
type MarkupFetcher interface {
	//FetchDay returns the match grid markup for one calendar day
	FetchDay(day time.Time) (string, error)
	//FetchPath returns the markup behind a site-relative link
	FetchPath(path string) (string, error)
}

type resolvedLevel struct {
	level float64
	rank  float64
}

// Resolver fills in skill levels missing from the listing by fetching the
// player's profile page. Results are memoized by player name for the
// lifetime of a run, so a player appearing in several matches costs one
// fetch.
type Resolver struct {
	fetcher MarkupFetcher
	memo    map[string]resolvedLevel
}

func NewResolver(fetcher MarkupFetcher) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		memo:    make(map[string]resolvedLevel),
	}
}

// Resolve fills p's level and ranking score, from the memo table when the
// name was already looked up this run, otherwise from the profile page
// behind p's link. Fetch failures propagate unchanged.
func (r *Resolver) Resolve(p *model.Player) error {
	key := strings.ToLower(strings.TrimSpace(p.Name))
	if cached, ok := r.memo[key]; ok {
		level := cached.level
		p.Level = &level
		p.RankingScore = cached.rank
		return nil
	}

	html, err := r.fetcher.FetchPath(p.ProfileLink)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}

	levelText := strings.TrimSpace(doc.Find(`span[id$="LabelNivelJugador"]`).First().Text())
	level, err := ParseLevel(levelText)
	if err != nil {
		return &ParseError{Text: levelText}
	}

	//ranking score is absent on some profiles, defaulting to zero
	rank := 0.0
	if rankText := strings.TrimSpace(doc.Find(`span[id$="LabelPuntosRanking"]`).First().Text()); rankText != "" {
		if v, err := ParseLevel(rankText); err == nil {
			rank = v
		}
	}

	r.memo[key] = resolvedLevel{level: level, rank: rank}
	p.Level = &level
	p.RankingScore = rank
	return nil
}
