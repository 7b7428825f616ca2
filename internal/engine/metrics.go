package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	CaptionRequests     atomic.Int64
	PlayerRequests      atomic.Int64
	AudioDownloads      atomic.Int64
	YtDlpInvocations    atomic.Int64
	TranscriptionJobs   atomic.Int64
	TranscriptionErrors atomic.Int64
	OEmbedRequests      atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
	ChunkedTranscripts  atomic.Int64
	HistoryWrites       atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"caption_requests":     metrics.CaptionRequests.Load(),
		"player_requests":      metrics.PlayerRequests.Load(),
		"audio_downloads":      metrics.AudioDownloads.Load(),
		"ytdlp_invocations":    metrics.YtDlpInvocations.Load(),
		"transcription_jobs":   metrics.TranscriptionJobs.Load(),
		"transcription_errors": metrics.TranscriptionErrors.Load(),
		"oembed_requests":      metrics.OEmbedRequests.Load(),
		"llm_calls":            metrics.LLMCalls.Load(),
		"llm_errors":           metrics.LLMErrors.Load(),
		"chunked_transcripts":  metrics.ChunkedTranscripts.Load(),
		"history_writes":       metrics.HistoryWrites.Load(),
		"cache_hits":           hits,
		"cache_misses":         misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"caption_requests", "player_requests", "audio_downloads",
		"ytdlp_invocations",
		"transcription_jobs", "transcription_errors",
		"oembed_requests",
		"llm_calls", "llm_errors",
		"chunked_transcripts", "history_writes",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the video sub-package.
func IncrCaptionRequests()     { metrics.CaptionRequests.Add(1) }
func IncrPlayerRequests()      { metrics.PlayerRequests.Add(1) }
func IncrAudioDownloads()      { metrics.AudioDownloads.Add(1) }
func IncrYtDlpInvocations()    { metrics.YtDlpInvocations.Add(1) }
func IncrTranscriptionJobs()   { metrics.TranscriptionJobs.Add(1) }
func IncrTranscriptionErrors() { metrics.TranscriptionErrors.Add(1) }
func IncrOEmbedRequests()      { metrics.OEmbedRequests.Add(1) }
func IncrLLMCalls()            { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()           { metrics.LLMErrors.Add(1) }
func IncrChunkedTranscripts()  { metrics.ChunkedTranscripts.Add(1) }
func IncrHistoryWrites()       { metrics.HistoryWrites.Add(1) }

// TrackOperation returns a completion func for deferred use; it logs a
// warning if the operation took longer than 30s.
//
//	defer engine.TrackOperation("acquire_transcript")()
func TrackOperation(name string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		if elapsed > 30*time.Second {
			slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
		}
	}
}
