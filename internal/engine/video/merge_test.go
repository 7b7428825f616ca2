package video

import (
	"strings"
	"testing"
)

func TestBuildMergePrompt_Structure(t *testing.T) {
	parts := []string{"first summary", "second summary", "third summary"}
	got := BuildMergePrompt(KindSummary, "My Video", parts)

	for i := range parts {
		header := "## Part " + string(rune('1'+i))
		if !strings.Contains(got, header) {
			t.Errorf("missing %q in merge prompt", header)
		}
	}
	if strings.Count(got, "\n\n---\n\n") != len(parts)-1 {
		t.Errorf("want %d horizontal rules, got %d", len(parts)-1, strings.Count(got, "\n\n---\n\n"))
	}
	if !strings.Contains(got, "My Video") {
		t.Error("merge prompt should carry the video title")
	}

	// Parts must appear in order.
	a := strings.Index(got, "first summary")
	b := strings.Index(got, "second summary")
	c := strings.Index(got, "third summary")
	if a < 0 || b < 0 || c < 0 || !(a < b && b < c) {
		t.Errorf("parts out of order: %d %d %d", a, b, c)
	}
}

func TestBuildMergePrompt_KindInstructions(t *testing.T) {
	tests := []struct {
		kind  OutputKind
		wants []string
	}{
		{KindSummary, []string{"single cohesive summary", "Overview / Main Points / Key Takeaways", "Preserve every unique fact"}},
		{KindKeyPoints, []string{"deduplicated", "Main Takeaways / Key Facts & Data / Core Arguments / Action Items", "Preserve every unique point"}},
		{KindOutline, []string{"one coherent outline", "re-number the sections sequentially", "Preserve every unique section"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := BuildMergePrompt(tt.kind, "", []string{"a", "b"})
			for _, want := range tt.wants {
				if !strings.Contains(got, want) {
					t.Errorf("merge prompt for %s missing %q", tt.kind, want)
				}
			}
		})
	}
}

func TestKindSystemPrompts_CanonicalSections(t *testing.T) {
	tests := []struct {
		kind  OutputKind
		wants []string
	}{
		{KindSummary, []string{"## Overview", "## Main Points", "## Key Takeaways"}},
		{KindKeyPoints, []string{"## Main Takeaways", "## Key Facts & Data", "## Core Arguments", "## Action Items"}},
		{KindOutline, []string{"numbered section headings"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			system := kindTable[tt.kind].System
			for _, want := range tt.wants {
				if !strings.Contains(system, want) {
					t.Errorf("%s system prompt missing %q", tt.kind, want)
				}
			}
		})
	}
	if got := kindTable[KindOutline].MaxTokens; got != 4000 {
		t.Errorf("outline max tokens = %d, want 4000", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	got := buildPrompt(KindSummary, "Title Here", "transcript body", nil)
	if !strings.Contains(got, "Video title: Title Here") {
		t.Error("prompt should include the title")
	}
	if !strings.HasSuffix(got, "transcript body") {
		t.Error("prompt should end with the transcript")
	}
	if strings.Contains(got, "[Part") {
		t.Error("unchunked prompt must not carry a part prefix")
	}

	c := Chunk{Index: 0, Total: 3}
	got = buildPrompt(KindKeyPoints, "", "chunk body", &c)
	if !strings.HasPrefix(got, "[Part 1 of 3") {
		t.Errorf("chunked prompt should start with the part prefix, got %q", got[:30])
	}
}

func TestValidKind(t *testing.T) {
	for _, k := range []OutputKind{KindSummary, KindKeyPoints, KindOutline} {
		if !ValidKind(k) {
			t.Errorf("ValidKind(%s) = false", k)
		}
	}
	if ValidKind("transcript") {
		t.Error(`ValidKind("transcript") = true, want false`)
	}
}
