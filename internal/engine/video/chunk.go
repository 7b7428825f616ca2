package video

import (
	"fmt"
	"strings"
)

// Token estimates use a 4-chars-per-token heuristic; close enough to plan
// windows for English transcripts without pulling in a tokenizer.
const (
	charsPerToken = 4

	chunkThresholdTokens = 25000 // above this, the transcript is split
	chunkTargetTokens    = 20000 // window size per chunk
	chunkOverlapTokens   = 500   // carried from the tail of each window

	// Sentence-boundary search range around a tentative cut point.
	boundaryLookback  = 2000
	boundaryLookahead = 500
)

// EstimateTokens approximates the token count of s, rounding up so a
// partial trailing token still counts.
func EstimateTokens(s string) int {
	return (len(s) + charsPerToken - 1) / charsPerToken
}

// NeedsChunking reports whether a transcript is too large for a single
// model call: strictly longer than the threshold.
func NeedsChunking(s string) bool {
	return len(s) > chunkThresholdTokens*charsPerToken
}

// ChunkTranscript splits text into overlapping, sentence-aligned windows.
// A text under the threshold comes back as one chunk covering everything.
// Consecutive chunks overlap so context spanning a cut is not lost.
func ChunkTranscript(text string) []Chunk {
	if !NeedsChunking(text) {
		return []Chunk{{Text: text, Index: 0, Total: 1, StartOffset: 0}}
	}

	windowChars := chunkTargetTokens * charsPerToken
	overlapChars := chunkOverlapTokens * charsPerToken

	var chunks []Chunk
	start := 0
	for start < len(text) {
		end := start + windowChars
		if end >= len(text) {
			end = len(text)
		} else {
			end = sentenceBoundary(text, end)
		}

		chunks = append(chunks, Chunk{
			Text:        text[start:end],
			Index:       len(chunks),
			StartOffset: start,
		})
		if end == len(text) {
			break
		}

		next := end - overlapChars
		// Overlap must never walk the cursor backwards or hold it still.
		if next <= start {
			next = end
		}
		start = next
	}

	for i := range chunks {
		chunks[i].Total = len(chunks)
	}
	return chunks
}

// sentenceBoundary adjusts a tentative cut position to just after the
// nearest sentence-terminal punctuation, searching a bounded window behind
// and ahead of pos. Falls back to pos when no terminal is found.
func sentenceBoundary(text string, pos int) int {
	lo := pos - boundaryLookback
	if lo < 0 {
		lo = 0
	}
	hi := pos + boundaryLookahead
	if hi > len(text) {
		hi = len(text)
	}

	window := text[lo:hi]
	best := -1
	for _, term := range []string{". ", "! ", "? ", ".\n", "!\n", "?\n"} {
		if i := strings.LastIndex(window, term); i > best {
			best = i
		}
	}
	if best < 0 {
		return pos
	}
	return lo + best + 1 // cut just after the punctuation mark
}

// ChunkContextPrefix describes a chunk's place in the whole transcript,
// prepended to per-chunk prompts so the model knows it is seeing a part.
func ChunkContextPrefix(c Chunk) string {
	if c.Total <= 1 {
		return ""
	}
	return fmt.Sprintf("[Part %d of %d of a longer transcript]\n\n", c.Index+1, c.Total)
}
