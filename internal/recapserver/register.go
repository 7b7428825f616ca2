// Package recapserver registers the video transcript and recap tools on an
// MCP server.
package recapserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all video tools on the given MCP server:
// video_transcript, video_summarize, video_key_points, video_outline,
// video_history_list, video_history_get.
func RegisterTools(server *mcp.Server) {
	registerVideoTranscript(server)
	registerVideoSummarize(server)
	registerVideoKeyPoints(server)
	registerVideoOutline(server)
	registerHistoryList(server)
	registerHistoryGet(server)
}
