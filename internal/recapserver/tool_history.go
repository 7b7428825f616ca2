package recapserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_recap/internal/engine/video"
	"github.com/anatolykoptev/go_recap/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HistoryListInput is the input for video_history_list.
type HistoryListInput struct {
	Limit int `json:"limit,omitempty"`
}

// HistoryListOutput is the output for video_history_list.
type HistoryListOutput struct {
	Entries []video.HistoryEntry `json:"entries"`
	Total   int                  `json:"total"`
}

// HistoryGetInput is the input for video_history_get.
type HistoryGetInput struct {
	VideoID string `json:"video_id"`
}

func registerHistoryList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_history_list",
		Description: "List previously processed videos from the local history (SQLite), most recently updated first. Returns video id, title, author, transcript source, and timestamps.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input HistoryListInput) (*mcp.CallToolResult, HistoryListOutput, error) {
		limit := toolutil.ClampLimit(input.Limit, 50, 100)
		entries, err := video.ListHistory(ctx, limit)
		if err != nil {
			return nil, HistoryListOutput{}, err
		}
		return nil, HistoryListOutput{Entries: entries, Total: len(entries)}, nil
	})
}

func registerHistoryGet(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_history_get",
		Description: "Look up one previously processed video in the local history by its 11-character video id.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input HistoryGetInput) (*mcp.CallToolResult, *video.HistoryEntry, error) {
		if input.VideoID == "" {
			return nil, nil, errors.New("video_id is required")
		}
		entry, err := video.GetHistory(ctx, input.VideoID)
		if err != nil {
			return nil, nil, err
		}
		if entry == nil {
			return nil, nil, fmt.Errorf("no history entry for %s", input.VideoID)
		}
		return nil, entry, nil
	})
}
