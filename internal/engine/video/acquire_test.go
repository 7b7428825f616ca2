package video

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResp(body string) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// initTestEngine installs a fake HTTP transport and minimal config.
func initTestEngine(t *testing.T, rt rtFunc) {
	t.Helper()
	engine.Init(engine.Config{
		CaptionLanguages:    []string{"en"},
		AudioClients:        []string{"ios", "android"},
		MaxAudioDurationSec: 10800,
		YtDlpPath:           "/nonexistent/yt-dlp",
		HTTPClient:          &http.Client{Transport: rt},
	})
}

const playerWithCaptions = `{
	"videoDetails": {"videoId": "dQw4w9WgXcQ", "title": "Test", "lengthSeconds": "212"},
	"playabilityStatus": {"status": "OK"},
	"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
		{"baseUrl": "https://yt.test/timedtext", "languageCode": "en"}
	]}}
}`

const playerNoCaptions = `{
	"videoDetails": {"videoId": "dQw4w9WgXcQ", "title": "Test", "lengthSeconds": "212"},
	"playabilityStatus": {"status": "OK"}
}`

const timedtextXML = `<transcript>
	<text start="0.0" dur="2.0">first cue here.</text>
	<text start="2.0" dur="2.0">second cue here.</text>
</transcript>`

func TestAcquireTranscript_CaptionsTier(t *testing.T) {
	initTestEngine(t, func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(r.URL.Path, "/youtubei/v1/player"):
			return jsonResp(playerWithCaptions), nil
		case strings.Contains(r.URL.Host, "yt.test"):
			return jsonResp(timedtextXML), nil
		}
		t.Errorf("unexpected request: %s", r.URL)
		return jsonResp("{}"), nil
	})

	res, err := AcquireTranscript(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("AcquireTranscript error: %v", err)
	}
	if res.Source != SourceCaptions {
		t.Errorf("source = %q, want captions", res.Source)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(res.Segments))
	}
	if res.Segments[1].OffsetMs != 2000 {
		t.Errorf("segment 1 offset = %d, want 2000", res.Segments[1].OffsetMs)
	}
	if res.Text != "first cue here. second cue here." {
		t.Errorf("text = %q", res.Text)
	}
}

func TestAcquireTranscript_TextIsParagraphFormatted(t *testing.T) {
	// Caption cues carry raw whitespace; the acquired Text must be the
	// reflowed paragraph form, not a plain space-join of the cues.
	const raggedXML = `<transcript>
	<text start="0.0" dur="2.0">first  line
here.</text>
	<text start="2.0" dur="2.0">second	cue.</text>
</transcript>`

	initTestEngine(t, func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(r.URL.Path, "/youtubei/v1/player"):
			return jsonResp(playerWithCaptions), nil
		case strings.Contains(r.URL.Host, "yt.test"):
			return jsonResp(raggedXML), nil
		}
		t.Errorf("unexpected request: %s", r.URL)
		return jsonResp("{}"), nil
	})

	res, err := AcquireTranscript(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("AcquireTranscript error: %v", err)
	}
	if res.Text != "first line here. second cue." {
		t.Errorf("text = %q, want collapsed whitespace", res.Text)
	}
	if want := FormatSegments(res.Segments); res.Text != want {
		t.Errorf("text = %q, want FormatSegments output %q", res.Text, want)
	}
}

func TestFetchCaptions_EmptyTrackFallsBack(t *testing.T) {
	// The preferred track is listed but serves an empty document; the
	// auto-generated track must be fetched instead.
	const playerTwoTracks = `{
		"videoDetails": {"videoId": "dQw4w9WgXcQ", "title": "Test", "lengthSeconds": "212"},
		"playabilityStatus": {"status": "OK"},
		"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
			{"baseUrl": "https://yt.test/timedtext?lang=en", "languageCode": "en"},
			{"baseUrl": "https://yt.test/timedtext?lang=de", "languageCode": "de", "kind": "asr"}
		]}}
	}`

	initTestEngine(t, func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(r.URL.Path, "/youtubei/v1/player"):
			return jsonResp(playerTwoTracks), nil
		case r.URL.Query().Get("lang") == "en":
			return jsonResp(`<transcript></transcript>`), nil
		case r.URL.Query().Get("lang") == "de":
			return jsonResp(timedtextXML), nil
		}
		t.Errorf("unexpected request: %s", r.URL)
		return jsonResp("{}"), nil
	})

	res, err := FetchCaptions(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FetchCaptions error: %v", err)
	}
	if len(res.Segments) != 2 {
		t.Errorf("got %d segments, want 2 from the fallback track", len(res.Segments))
	}
}

func TestFetchCaptions_AllTracksEmpty(t *testing.T) {
	initTestEngine(t, func(r *http.Request) (*http.Response, error) {
		if strings.Contains(r.URL.Path, "/youtubei/v1/player") {
			return jsonResp(playerWithCaptions), nil
		}
		return jsonResp(`<transcript></transcript>`), nil
	})

	_, err := FetchCaptions(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, ErrNoTranscript) {
		t.Errorf("error = %v, want ErrNoTranscript", err)
	}
}

func TestAcquireTranscript_DoubleFailureReturnsCaptionError(t *testing.T) {
	// No caption tracks and no audio formats: both tiers fail, and the
	// caption-tier error is the one the caller sees.
	initTestEngine(t, func(r *http.Request) (*http.Response, error) {
		return jsonResp(playerNoCaptions), nil
	})

	_, err := AcquireTranscript(context.Background(), "dQw4w9WgXcQ")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNoTranscript) {
		t.Errorf("error = %v, want ErrNoTranscript from the caption tier", err)
	}
	if errors.Is(err, ErrExtractionFailed) {
		t.Error("audio-tier error must not replace the caption-tier error")
	}
}

func TestExtractAudio_DurationGateTerminal(t *testing.T) {
	var playerCalls atomic.Int32
	initTestEngine(t, func(r *http.Request) (*http.Response, error) {
		if strings.Contains(r.URL.Path, "/youtubei/v1/player") {
			playerCalls.Add(1)
			return jsonResp(`{
				"videoDetails": {"videoId": "dQw4w9WgXcQ", "lengthSeconds": "20000"},
				"playabilityStatus": {"status": "OK"}
			}`), nil
		}
		t.Errorf("unexpected request: %s", r.URL)
		return jsonResp("{}"), nil
	})

	_, err := ExtractAudio(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, ErrDurationExceeded) {
		t.Fatalf("error = %v, want ErrDurationExceeded", err)
	}
	if got := playerCalls.Load(); got != 1 {
		t.Errorf("player calls = %d, want 1 (duration gate must stop the strategy loop)", got)
	}
}

func TestFetchCaptions_PlayabilityError(t *testing.T) {
	initTestEngine(t, func(r *http.Request) (*http.Response, error) {
		return jsonResp(`{"playabilityStatus": {"status": "ERROR", "reason": "Video unavailable"}}`), nil
	})

	_, err := FetchCaptions(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, ErrVideoUnavailable) {
		t.Errorf("error = %v, want ErrVideoUnavailable", err)
	}
}
