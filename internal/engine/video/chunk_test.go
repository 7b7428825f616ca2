package video

import (
	"strings"
	"testing"
)

// sentences returns text built from numbered sentences until it is at least
// n characters long.
func sentences(n int) string {
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		b.WriteString("This is sentence number ")
		b.WriteString(strings.Repeat("x", i%7+1))
		b.WriteString(" of the transcript. ")
	}
	return b.String()
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(strings.Repeat("a", 400)); got != 100 {
		t.Errorf("EstimateTokens(400 chars) = %d, want 100", got)
	}
	if got := EstimateTokens("abcde"); got != 2 {
		t.Errorf("EstimateTokens(5 chars) = %d, want 2 (rounds up)", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(empty) = %d, want 0", got)
	}
}

func TestNeedsChunking_Threshold(t *testing.T) {
	atThreshold := strings.Repeat("a", chunkThresholdTokens*charsPerToken)
	if NeedsChunking(atThreshold) {
		t.Error("text exactly at the threshold length must not need chunking")
	}
	if !NeedsChunking(atThreshold + "a") {
		t.Error("text one char past the threshold length must need chunking")
	}
}

func TestChunkTranscript_SingleChunk(t *testing.T) {
	text := sentences(1000)
	chunks := ChunkTranscript(text)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	c := chunks[0]
	if c.Text != text {
		t.Error("single chunk must carry the full text unchanged")
	}
	if c.Index != 0 || c.Total != 1 || c.StartOffset != 0 {
		t.Errorf("single chunk fields = {index=%d total=%d offset=%d}, want {0 1 0}", c.Index, c.Total, c.StartOffset)
	}
}

func TestChunkTranscript_Large(t *testing.T) {
	text := sentences(250000)
	chunks := ChunkTranscript(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want 2+", len(chunks))
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.Total != len(chunks) {
			t.Errorf("chunk %d has total %d, want %d", i, c.Total, len(chunks))
		}
		if c.Text != text[c.StartOffset:c.StartOffset+len(c.Text)] {
			t.Errorf("chunk %d text does not match its offset into the original", i)
		}
	}

	// First chunk starts at 0, last chunk reaches the end.
	if chunks[0].StartOffset != 0 {
		t.Errorf("first chunk offset = %d, want 0", chunks[0].StartOffset)
	}
	last := chunks[len(chunks)-1]
	if last.StartOffset+len(last.Text) != len(text) {
		t.Error("last chunk must reach the end of the text")
	}

	// Consecutive chunks must make forward progress and leave no gaps.
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if cur.StartOffset <= prev.StartOffset {
			t.Errorf("chunk %d does not advance: %d <= %d", i, cur.StartOffset, prev.StartOffset)
		}
		if cur.StartOffset > prev.StartOffset+len(prev.Text) {
			t.Errorf("gap between chunk %d and %d", i-1, i)
		}
	}
}

func TestChunkTranscript_SentenceAligned(t *testing.T) {
	text := sentences(250000)
	chunks := ChunkTranscript(text)
	// Every non-final chunk should end just after sentence punctuation,
	// since the input has a terminal within every search window.
	for i, c := range chunks[:len(chunks)-1] {
		trimmed := strings.TrimRight(c.Text, " \n")
		if !endsSentence(trimmed) {
			t.Errorf("chunk %d does not end at a sentence boundary: ...%q", i, tail(c.Text, 20))
		}
	}
}

func TestChunkTranscript_NoBoundaryFallback(t *testing.T) {
	// No punctuation anywhere: cuts fall back to the raw window size and
	// the loop must still terminate and cover the text.
	text := strings.Repeat("a", 150000)
	chunks := ChunkTranscript(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want 2+", len(chunks))
	}
	last := chunks[len(chunks)-1]
	if last.StartOffset+len(last.Text) != len(text) {
		t.Error("last chunk must reach the end of the text")
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func TestChunkContextPrefix(t *testing.T) {
	if got := ChunkContextPrefix(Chunk{Index: 0, Total: 1}); got != "" {
		t.Errorf("single-chunk prefix = %q, want empty", got)
	}
	got := ChunkContextPrefix(Chunk{Index: 1, Total: 3})
	if !strings.Contains(got, "Part 2 of 3") {
		t.Errorf("prefix = %q, want it to mention Part 2 of 3", got)
	}
}
