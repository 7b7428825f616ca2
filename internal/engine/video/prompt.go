package video

import "fmt"

// Prompt templates for each output kind. Kept as constants so the exact
// wording is reviewable in one place. Each kind imposes a canonical
// Markdown section structure that the merge pass relies on.

const summarySystem = `You are an expert at summarizing video transcripts. ` +
	`Write a clear Markdown summary with exactly these sections: ` +
	`"## Overview" (2-3 sentences on what the video covers), ` +
	`"## Main Points" (the ideas and arguments, in order), and ` +
	`"## Key Takeaways" (what the viewer should remember). ` +
	`Preserve the speaker's intent; do not add opinions of your own. ` +
	`Do not mention that you are working from a transcript.`

const keyPointsSystem = `You are an expert at extracting key points from video ` +
	`transcripts. Return Markdown with these sections: ` +
	`"## Main Takeaways", "## Key Facts & Data", "## Core Arguments", and ` +
	`"## Action Items". Each entry is a single concise bullet, ordered as it ` +
	`appears in the video. Leave a section out only when the transcript has ` +
	`nothing for it. No preamble, no closing remarks.`

const outlineSystem = `You are an expert at outlining video content. Produce a ` +
	`hierarchical Markdown outline with numbered section headings ` +
	`("## 1. ...", "## 2. ...") and "- " bullets for details, following the ` +
	`structure of the video. Use short descriptive headings. No preamble.`

// generation parameters per kind
type kindParams struct {
	System      string
	MaxTokens   int
	Temperature float64
}

var kindTable = map[OutputKind]kindParams{
	KindSummary:   {System: summarySystem, MaxTokens: 2000, Temperature: 0.3},
	KindKeyPoints: {System: keyPointsSystem, MaxTokens: 1500, Temperature: 0},
	KindOutline:   {System: outlineSystem, MaxTokens: 4000, Temperature: 0.2},
}

// buildPrompt composes the user prompt for one (possibly chunked) piece of
// transcript.
func buildPrompt(kind OutputKind, title, text string, chunk *Chunk) string {
	var head string
	if title != "" {
		head = fmt.Sprintf("Video title: %s\n\n", title)
	}
	var prefix string
	if chunk != nil {
		prefix = ChunkContextPrefix(*chunk)
	}
	var ask string
	switch kind {
	case KindSummary:
		ask = "Summarize the following transcript:"
	case KindKeyPoints:
		ask = "Extract the key points from the following transcript:"
	case KindOutline:
		ask = "Create an outline of the following transcript:"
	}
	return prefix + head + ask + "\n\n" + text
}
