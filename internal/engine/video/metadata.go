package video

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Metadata comes from the public oEmbed endpoint: no API key, no quota,
// and it answers for any public video. Results are cached.

const oEmbedURL = "https://www.youtube.com/oembed"

// FetchMetadata looks up title/author/thumbnail for a video.
func FetchMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	cacheKey := engine.CacheKey("meta", videoID)
	if meta, ok := engine.CacheLoadJSON[Metadata](ctx, cacheKey); ok {
		return &meta, nil
	}

	engine.IncrOEmbedRequests()

	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("format", "json")

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, oEmbedURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataFetch, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: oembed HTTP %d (private or embedding disabled)", ErrVideoUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: oembed HTTP %d", ErrMetadataFetch, resp.StatusCode)
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrMetadataFetch, err)
	}

	engine.CacheStoreJSON(ctx, cacheKey, &meta)
	slog.Debug("metadata fetched", "video_id", videoID, "title", meta.Title)
	return &meta, nil
}
