package video

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Caption tier: fetch platform-provided caption tracks via the Innertube
// player response and download the selected track as timedtext XML.

// timedtext is the caption track XML document.
type timedtext struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedtextCue `xml:"text"`
}

type timedtextCue struct {
	Start float64 `xml:"start,attr"` // seconds
	Dur   float64 `xml:"dur,attr"`   // seconds
	Body  string  `xml:",chardata"`
}

// FetchCaptions retrieves the caption transcript for a video. Languages are
// tried in configured preference order; for each language a manually
// authored track beats an auto-generated ("asr") one, and any auto-generated
// track is the final fallback.
func FetchCaptions(ctx context.Context, videoID string) (*TranscriptResult, error) {
	engine.IncrCaptionRequests()

	pr, err := fetchPlayer(ctx, clientProfiles["android"], videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptionFetch, err)
	}
	if pr.PlayabilityStatus != nil {
		if err := classifyPlayability(pr.PlayabilityStatus.Status, pr.PlayabilityStatus.Reason); err != nil {
			return nil, err
		}
	}

	var tracks []captionTrack
	if pr.Captions != nil {
		tracks = pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks", ErrNoTranscript)
	}

	track := pickTrack(tracks, engine.Cfg.CaptionLanguages)
	slog.Debug("caption track selected",
		"video_id", videoID, "lang", track.LanguageCode, "kind", track.Kind)

	segments, err := fetchTimedtext(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptionFetch, err)
	}
	if len(segments) == 0 {
		// A listed track can still serve an empty document. Retry once
		// without the language constraint before giving up.
		if alt, ok := fallbackTrack(tracks, track); ok {
			slog.Debug("caption track empty, retrying with fallback",
				"video_id", videoID, "lang", alt.LanguageCode, "kind", alt.Kind)
			segments, err = fetchTimedtext(ctx, alt.BaseURL)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCaptionFetch, err)
			}
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty caption track %q", ErrNoTranscript, track.LanguageCode)
	}

	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Text
	}
	return &TranscriptResult{
		Text:     strings.Join(parts, " "),
		Segments: segments,
		Source:   SourceCaptions,
	}, nil
}

// pickTrack selects the best caption track: for each preferred language, a
// manual track first, then an asr track; failing all preferences, any asr
// track; failing that, the first track.
func pickTrack(tracks []captionTrack, langs []string) captionTrack {
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	for _, lang := range langs {
		for _, asr := range []bool{false, true} {
			for _, t := range tracks {
				if matchLang(t.LanguageCode, lang) && (t.Kind == "asr") == asr {
					return t
				}
			}
		}
	}
	for _, t := range tracks {
		if t.Kind == "asr" {
			return t
		}
	}
	return tracks[0]
}

// fallbackTrack returns a second choice distinct from the track already
// tried: an auto-generated track first, then any other track.
func fallbackTrack(tracks []captionTrack, tried captionTrack) (captionTrack, bool) {
	for _, t := range tracks {
		if t != tried && t.Kind == "asr" {
			return t, true
		}
	}
	for _, t := range tracks {
		if t != tried {
			return t, true
		}
	}
	return captionTrack{}, false
}

// matchLang treats "en-US" as matching a preference of "en".
func matchLang(code, pref string) bool {
	return code == pref || strings.HasPrefix(code, pref+"-")
}

// fetchTimedtext downloads and parses one caption track.
func fetchTimedtext(ctx context.Context, baseURL string) ([]Segment, error) {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", ytAndroidUA)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseTimedtext(body)
}

// parseTimedtext converts timedtext XML into ordered segments with
// millisecond offsets. Cues with no text after entity decoding are dropped.
func parseTimedtext(data []byte) ([]Segment, error) {
	var doc timedtext
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}

	segments := make([]Segment, 0, len(doc.Texts))
	for _, cue := range doc.Texts {
		text := engine.DecodeEntities(engine.CleanHTML(cue.Body))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:       text,
			OffsetMs:   int64(cue.Start * 1000),
			DurationMs: int64(cue.Dur * 1000),
		})
	}
	return segments, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
