package fetch

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client fetches raw markup from the booking site. The grid and the player
// profiles are server-rendered pages, so a plain GET returns the complete
// document.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(strings.TrimSuffix(baseURL, "/")),
	}
}

// FetchDay returns the match grid markup for one calendar day.
func (c *Client) FetchDay(day time.Time) (string, error) {
	res, err := c.http.R().
		SetQueryParam("f", day.Format("02/01/2006")).
		SetQueryParam("c", "3").
		Get("/Matches/Grid.aspx")
	if err != nil {
		return "", fmt.Errorf("fetch grid for %s: %w", day.Format("2006-01-02"), err)
	}
	if res.IsError() {
		return "", fmt.Errorf("fetch grid for %s: %s", day.Format("2006-01-02"), res.Status())
	}
	return res.String(), nil
}

// FetchPath returns the markup behind a site-relative link, such as a
// player profile href taken from the grid.
func (c *Client) FetchPath(path string) (string, error) {
	res, err := c.http.R().Get("/Matches/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("fetch %s: %s", path, res.Status())
	}
	return res.String(), nil
}
