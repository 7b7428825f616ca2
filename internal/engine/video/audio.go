package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Audio tier: pull the raw audio stream for a video so it can be sent to
// the transcription service. Strategies are tried in configured order; a
// yt-dlp subprocess is the last resort when every direct strategy fails.

// ExtractAudio returns the best-quality audio stream fully buffered in
// memory. The duration gate is checked before any download and is terminal:
// a video over the cap fails immediately regardless of remaining strategies.
func ExtractAudio(ctx context.Context, videoID string) (*AudioPayload, error) {
	engine.IncrAudioDownloads()

	names := engine.Cfg.AudioClients
	if len(names) == 0 {
		names = DefaultAudioClients
	}

	var lastErr error
	for _, name := range names {
		payload, err := runStrategy(ctx, name, videoID)
		if err == nil {
			slog.Info("audio extracted",
				"video_id", videoID, "client", name,
				"bytes", len(payload.Data), "duration_sec", payload.DurationSec)
			return payload, nil
		}
		// Over-duration is a property of the video, not the strategy.
		if errors.Is(err, ErrDurationExceeded) {
			return nil, err
		}
		slog.Warn("audio strategy failed", "video_id", videoID, "client", name, "error", err)
		lastErr = err
	}

	// Last resort: hand the whole job to yt-dlp.
	payload, err := ytdlpExtract(ctx, videoID)
	if err == nil {
		return payload, nil
	}
	slog.Warn("yt-dlp fallback failed", "video_id", videoID, "error", err)
	if lastErr == nil {
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, lastErr)
}

// runStrategy executes one named extraction strategy end to end. "web"
// scrapes the watch page with the stealth browser client; every other name
// is a spoofed Innertube API client.
func runStrategy(ctx context.Context, name, videoID string) (*AudioPayload, error) {
	if name == "web" {
		pr, err := fetchWatchPagePlayer(ctx, videoID)
		if err != nil {
			return nil, err
		}
		return extractFromPlayer(ctx, pr, engine.RandomUserAgent())
	}

	profile, ok := clientProfiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown audio client strategy %q", name)
	}
	pr, err := fetchPlayer(ctx, profile, videoID)
	if err != nil {
		return nil, err
	}
	return extractFromPlayer(ctx, pr, profile.UserAgent)
}

// extractFromPlayer applies the duration gate, picks the best audio-only
// format, and buffers the stream.
func extractFromPlayer(ctx context.Context, pr *playerResp, userAgent string) (*AudioPayload, error) {
	if pr.PlayabilityStatus != nil {
		if err := classifyPlayability(pr.PlayabilityStatus.Status, pr.PlayabilityStatus.Reason); err != nil {
			return nil, err
		}
	}

	durationSec := pr.lengthSeconds()
	if durationSec > engine.Cfg.MaxAudioDurationSec {
		return nil, fmt.Errorf("%w: %ds > %ds", ErrDurationExceeded, durationSec, engine.Cfg.MaxAudioDurationSec)
	}

	format := bestAudioFormat(pr)
	if format == nil {
		return nil, fmt.Errorf("no audio-only format in player response")
	}

	data, err := downloadStream(ctx, userAgent, format.URL)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio stream itag=%d", format.Itag)
	}

	declared, _ := strconv.ParseInt(format.ContentLength, 10, 64)
	return &AudioPayload{Data: data, DurationSec: durationSec, EstimatedBytes: declared}, nil
}

// bestAudioFormat picks the highest-bitrate audio-only adaptive format that
// carries a direct URL. Formats without URLs need signature deciphering,
// which the spoofed mobile clients avoid.
func bestAudioFormat(pr *playerResp) *streamFormat {
	if pr.StreamingData == nil {
		return nil
	}
	var best *streamFormat
	for i := range pr.StreamingData.AdaptiveFormats {
		f := &pr.StreamingData.AdaptiveFormats[i]
		if f.URL == "" || !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

// downloadStream buffers the whole stream into memory. The User-Agent must
// match the client that produced the stream URL or the CDN rejects it.
func downloadStream(ctx context.Context, userAgent, streamURL string) ([]byte, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("stream download: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
