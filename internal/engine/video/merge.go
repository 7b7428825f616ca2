package video

import (
	"fmt"
	"strings"
)

// Merge pass: when a transcript was processed in chunks, the per-chunk
// results are composed into one document and sent through the model once
// more with a kind-specific merge instruction.

var mergeInstructions = map[OutputKind]string{
	KindSummary: "The following are summaries of consecutive parts of one video. " +
		"Merge them into a single cohesive summary with the same " +
		"Overview / Main Points / Key Takeaways structure. Preserve every " +
		"unique fact, remove redundancy from the overlapping regions, and " +
		"keep the narrative in order.",
	KindKeyPoints: "The following are key-point lists from consecutive parts of one " +
		"video. Merge them into a single deduplicated document with the same " +
		"Main Takeaways / Key Facts & Data / Core Arguments / Action Items " +
		"structure. Preserve every unique point, keeping the original order " +
		"of first appearance.",
	KindOutline: "The following are outlines of consecutive parts of one video. " +
		"Merge them into one coherent outline, joining sections that continue " +
		"across part boundaries. Preserve every unique section and detail, " +
		"and re-number the sections sequentially.",
}

// BuildMergePrompt numbers each partial result under a Part header,
// separates them with horizontal rules, and prepends the merge instruction
// for the kind.
func BuildMergePrompt(kind OutputKind, title string, parts []string) string {
	var b strings.Builder
	b.WriteString(mergeInstructions[kind])
	if title != "" {
		fmt.Fprintf(&b, "\n\nVideo title: %s", title)
	}
	b.WriteString("\n\n")
	for i, p := range parts {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "## Part %d\n\n%s", i+1, strings.TrimSpace(p))
	}
	return b.String()
}
