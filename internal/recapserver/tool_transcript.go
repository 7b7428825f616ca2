package recapserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/engine/video"
	"github.com/anatolykoptev/go_recap/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VideoTranscriptInput is the input for video_transcript.
type VideoTranscriptInput struct {
	URL string `json:"url"`
}

// VideoTranscriptOutput is the output for video_transcript. When transcript
// acquisition fails after metadata resolved, metadata is still populated and
// Error carries the failure; clients can show the video card even without a
// transcript.
type VideoTranscriptOutput struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title,omitempty"`
	AuthorName   string `json:"author_name,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Source       string `json:"source,omitempty"`
	HasSpeakers  bool   `json:"has_speakers,omitempty"`
	Transcript   string `json:"transcript,omitempty"`
	Error        string `json:"error,omitempty"`
}

func registerVideoTranscript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_transcript",
		Description: "Fetch the transcript of a YouTube video as readable Markdown. Uses platform captions when available, otherwise extracts the audio and transcribes it with speaker diarization. Accepts any YouTube URL form or a bare 11-character video id.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoTranscriptInput) (*mcp.CallToolResult, VideoTranscriptOutput, error) {
		if input.URL == "" {
			return nil, VideoTranscriptOutput{}, errors.New("url is required")
		}

		videoID, meta, err := toolutil.ResolveVideo(ctx, input.URL)
		if err != nil {
			return nil, VideoTranscriptOutput{}, err
		}
		out := VideoTranscriptOutput{
			VideoID:      videoID,
			Title:        meta.Title,
			AuthorName:   meta.AuthorName,
			ThumbnailURL: meta.ThumbnailURL,
		}

		res, err := video.AcquireTranscript(ctx, videoID)
		if err != nil {
			out.Error = err.Error()
			return nil, out, nil
		}
		out.Source = string(res.Source)
		out.HasSpeakers = res.HasSpeakers
		out.Transcript = res.Text
		if limit := engine.Cfg.MaxTranscriptChars; limit > 0 {
			out.Transcript = engine.TruncateRunes(res.Text, limit, "…")
		}

		if err := video.RecordHistory(ctx, videoID, meta, res); err != nil {
			slog.Warn("video_transcript: history write failed", slog.Any("error", err))
		}
		return nil, out, nil
	})
}
