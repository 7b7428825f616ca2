package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// YouTube Innertube API — low-level constants, types, and HTTP primitives.
// Higher-level logic lives in captions.go and audio.go.
//
// The platform serves different stream manifests depending on the declared
// client identity, and which clients work drifts over time. Each entry in
// clientProfiles is one spoofing strategy; the ordered strategy list comes
// from engine.Cfg.AudioClients so new strategies can be added without
// touching orchestration.

const (
	ytPlayerURL      = "https://www.youtube.com/youtubei/v1/player"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
)

// clientProfile describes one spoofed client identity.
type clientProfile struct {
	Name              string // Innertube clientName
	Version           string
	ClientID          string // X-Youtube-Client-Name header value
	UserAgent         string
	AndroidSdkVersion int    // 0 = omit
	DeviceModel       string // "" = omit
}

// clientProfiles holds every known spoofing strategy, keyed by the short
// name used in configuration.
var clientProfiles = map[string]clientProfile{
	"ios": {
		Name:        "IOS",
		Version:     "19.45.4",
		ClientID:    "5",
		UserAgent:   "com.google.ios.youtube/19.45.4 (iPhone16,2; U; CPU iOS 18_1_0 like Mac OS X)",
		DeviceModel: "iPhone16,2",
	},
	"android": {
		Name:              "ANDROID",
		Version:           ytAndroidVersion,
		ClientID:          "3",
		UserAgent:         ytAndroidUA,
		AndroidSdkVersion: 30,
	},
	"android_vr": {
		Name:              "ANDROID_VR",
		Version:           "1.60.19",
		ClientID:          "28",
		UserAgent:         "com.google.android.apps.youtube.vr.oculus/1.60.19 (Linux; U; Android 12L) gzip",
		AndroidSdkVersion: 32,
	},
	"web_embedded": {
		Name:      "WEB_EMBEDDED_PLAYER",
		Version:   "1.20250222.01.00",
		ClientID:  "56",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	},
	"tv": {
		Name:      "TVHTML5",
		Version:   "7.20250222.14.00",
		ClientID:  "7",
		UserAgent: "Mozilla/5.0 (ChromiumStylePlatform) Cobalt/Version",
	},
}

// DefaultAudioClients is the default ordered strategy list. "web" is the
// watch-page scrape in watchpage.go, not an Innertube API client.
var DefaultAudioClients = []string{"ios", "android", "android_vr", "web_embedded", "web"}

// --- Request types ---

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	DeviceModel       string `json:"deviceModel,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

// --- Response types ---

type playerResp struct {
	VideoDetails *struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		LengthSeconds string `json:"lengthSeconds"`
		Author        string `json:"author"`
	} `json:"videoDetails"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	StreamingData *struct {
		AdaptiveFormats []streamFormat `json:"adaptiveFormats"`
		Formats         []streamFormat `json:"formats"`
	} `json:"streamingData"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type streamFormat struct {
	Itag             int    `json:"itag"`
	URL              string `json:"url"`
	MimeType         string `json:"mimeType"`
	Bitrate          int    `json:"bitrate"`
	AverageBitrate   int    `json:"averageBitrate"`
	ContentLength    string `json:"contentLength"`
	AudioQuality     string `json:"audioQuality"`
	ApproxDurationMs string `json:"approxDurationMs"`
}

// lengthSeconds parses the declared duration, 0 if absent or malformed.
func (p *playerResp) lengthSeconds() int {
	if p.VideoDetails == nil {
		return 0
	}
	n, err := strconv.Atoi(p.VideoDetails.LengthSeconds)
	if err != nil {
		return 0
	}
	return n
}

// fetchPlayer POSTs to the Innertube /player endpoint with the given
// spoofed client identity.
func fetchPlayer(ctx context.Context, profile clientProfile, videoID string) (*playerResp, error) {
	engine.IncrPlayerRequests()

	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        profile.Name,
				ClientVersion:     profile.Version,
				AndroidSdkVersion: profile.AndroidSdkVersion,
				DeviceModel:       profile.DeviceModel,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ytPlayerURL+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", profile.UserAgent)
		req.Header.Set("X-Youtube-Client-Name", profile.ClientID)
		req.Header.Set("X-Youtube-Client-Version", profile.Version)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("innertube player [%s]: %w", profile.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("innertube player [%s]: HTTP %d: %s", profile.Name, resp.StatusCode, snippet)
	}

	var pr playerResp
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode player [%s]: %w", profile.Name, err)
	}
	return &pr, nil
}

// classifyPlayability maps a non-OK playability status to a sentinel error.
func classifyPlayability(status, reason string) error {
	switch status {
	case "", "OK":
		return nil
	case "AGE_VERIFICATION_REQUIRED", "AGE_CHECK_REQUIRED", "CONTENT_CHECK_REQUIRED":
		return fmt.Errorf("%w: %s", ErrAgeRestricted, reason)
	case "LOGIN_REQUIRED":
		if reason == "" {
			reason = "sign in required"
		}
		return fmt.Errorf("%w: %s", ErrAgeRestricted, reason)
	case "ERROR":
		return fmt.Errorf("%w: %s", ErrVideoUnavailable, reason)
	case "UNPLAYABLE":
		if containsFold(reason, "country") || containsFold(reason, "region") {
			return fmt.Errorf("%w: %s", ErrRegionBlocked, reason)
		}
		return fmt.Errorf("%w: %s", ErrVideoUnavailable, reason)
	}
	return fmt.Errorf("%w: %s: %s", ErrVideoUnavailable, status, reason)
}
