package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Watch-page strategy: fetch the regular watch page with a Chrome TLS
// fingerprint and read the embedded ytInitialPlayerResponse JSON. Works
// when the Innertube API refuses the spoofed API clients, at the cost of a
// much larger response.

const playerRespMarker = "ytInitialPlayerResponse = "

// fetchWatchPagePlayer scrapes the player response out of the watch page.
// Requires the stealth browser client; plain net/http gets served a
// consent interstitial instead of the player payload.
func fetchWatchPagePlayer(ctx context.Context, videoID string) (*playerResp, error) {
	bc := engine.Cfg.BrowserClient
	if bc == nil {
		return nil, fmt.Errorf("watch page: browser client not configured")
	}
	engine.IncrPlayerRequests()

	headers := engine.ChromeHeaders()
	headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9"
	headers["accept-language"] = "en-US,en;q=0.9"

	targetURL := "https://www.youtube.com/watch?v=" + videoID + "&hl=en"
	body, err := engine.RetryDo(ctx, engine.DefaultRetryConfig, func() ([]byte, error) {
		d, _, s, e := bc.Do("GET", targetURL, headers, nil)
		if e != nil {
			return nil, e
		}
		if s != 200 {
			return nil, fmt.Errorf("watch page status %d", s)
		}
		return d, nil
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	return parseWatchPage(body)
}

// parseWatchPage extracts the first ytInitialPlayerResponse object from
// watch-page HTML. The decoder reads exactly one JSON value, so the
// trailing script text does not need to be located.
func parseWatchPage(body []byte) (*playerResp, error) {
	idx := bytes.Index(body, []byte(playerRespMarker))
	if idx < 0 {
		if bytes.Contains(body, []byte("consent.youtube.com")) {
			return nil, fmt.Errorf("watch page: consent interstitial served")
		}
		return nil, fmt.Errorf("watch page: player response not found")
	}

	dec := json.NewDecoder(strings.NewReader(string(body[idx+len(playerRespMarker):])))
	var pr playerResp
	if err := dec.Decode(&pr); err != nil {
		return nil, fmt.Errorf("watch page: decode player response: %w", err)
	}
	return &pr, nil
}
