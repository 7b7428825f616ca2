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

// VideoGenerateInput is the input for the summarize/key-points/outline tools.
type VideoGenerateInput struct {
	URL string `json:"url"`
}

// VideoGenerateOutput is the output for the summarize/key-points/outline tools.
type VideoGenerateOutput struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

func registerVideoSummarize(server *mcp.Server) {
	registerGenerateTool(server, &mcp.Tool{
		Name:        "video_summarize",
		Description: "Summarize a YouTube video from its transcript. Returns a well-structured Markdown summary of the main ideas, arguments, and conclusions. Long videos are processed in overlapping chunks and merged.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, video.KindSummary)
}

func registerVideoKeyPoints(server *mcp.Server) {
	registerGenerateTool(server, &mcp.Tool{
		Name:        "video_key_points",
		Description: "Extract the key points of a YouTube video as a Markdown bulleted list, in order of appearance. Long videos are processed in overlapping chunks and merged.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, video.KindKeyPoints)
}

func registerVideoOutline(server *mcp.Server) {
	registerGenerateTool(server, &mcp.Tool{
		Name:        "video_outline",
		Description: "Produce a hierarchical Markdown outline of a YouTube video following its structure. Long videos are processed in overlapping chunks and merged.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, video.KindOutline)
}

func registerGenerateTool(server *mcp.Server, tool *mcp.Tool, kind video.OutputKind) {
	mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoGenerateInput) (*mcp.CallToolResult, VideoGenerateOutput, error) {
		if input.URL == "" {
			return nil, VideoGenerateOutput{}, errors.New("url is required")
		}

		videoID, meta, err := toolutil.ResolveVideo(ctx, input.URL)
		if err != nil {
			return nil, VideoGenerateOutput{}, err
		}
		out := VideoGenerateOutput{VideoID: videoID, Title: meta.Title, Kind: string(kind)}

		cacheKey := engine.CacheKey(string(kind), videoID)
		if cached, ok := engine.CacheLoadJSON[VideoGenerateOutput](ctx, cacheKey); ok {
			return nil, cached, nil
		}

		res, err := video.AcquireTranscript(ctx, videoID)
		if err != nil {
			return nil, VideoGenerateOutput{}, err
		}

		content, err := video.Generate(ctx, res.Text, meta.Title, kind)
		if err != nil {
			return nil, VideoGenerateOutput{}, err
		}
		out.Content = content

		engine.CacheStoreJSON(ctx, cacheKey, out)
		if err := video.RecordHistory(ctx, videoID, meta, res); err != nil {
			slog.Warn("generate: history write failed", slog.String("kind", string(kind)), slog.Any("error", err))
		}
		return nil, out, nil
	})
}
