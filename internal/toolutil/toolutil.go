// Package toolutil provides shared helper functions for go_recap MCP tools.
package toolutil

import (
	"context"

	"github.com/anatolykoptev/go_recap/internal/engine/video"
)

// ResolveVideo parses the user-supplied URL or id and looks up metadata.
// A metadata failure is terminal: no transcript work starts for a video
// that cannot be resolved.
func ResolveVideo(ctx context.Context, raw string) (string, *video.Metadata, error) {
	videoID, err := video.ExtractVideoID(raw)
	if err != nil {
		return "", nil, err
	}
	meta, err := video.FetchMetadata(ctx, videoID)
	if err != nil {
		return videoID, nil, err
	}
	return videoID, meta, nil
}

// ClampLimit bounds a user-supplied limit to (0, max], using def when the
// input is zero or negative.
func ClampLimit(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
