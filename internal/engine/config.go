package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	AssemblyAIKey        string
	LLMAPIKey            string
	LLMAPIKeyFallbacks   []string
	LLMAPIBase           string
	LLMModel             string
	LLMTemperature       float64
	LLMMaxTokens         int
	CaptionLanguages     []string // preferred caption languages, tried in order
	AudioClients         []string // ordered spoofed-client strategies for audio extraction
	MaxAudioDurationSec  int      // hard ceiling on declared source duration
	YtDlpPath            string   // external downloader binary ("" = yt-dlp from PATH)
	YtDlpCookiesBrowser  string   // --cookies-from-browser argument ("" = no cookies)
	TranscribePollWait   time.Duration
	TranscribeTimeout    time.Duration
	MaxTranscriptChars   int // rune cap on transcript text returned by tools, 0 = unlimited
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
	LLMClient            *llm.Client
	BrowserClient        *BrowserClient // nil = watch-page scrape strategy disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (video, recapserver).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
