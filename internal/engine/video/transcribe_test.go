package video

import (
	"strings"
	"testing"
)

func TestNormalizeJob_SingleSpeaker(t *testing.T) {
	job := &transcriptJobResp{
		Text: "hello world this is a monologue",
		Words: []apiWord{
			{Text: "hello", Start: 100, End: 400},
			{Text: "world", Start: 400, End: 900},
		},
		Utterances: []apiUtterance{
			{Speaker: "A", Text: "hello world this is a monologue", Start: 100, End: 5000},
		},
	}

	res := normalizeJob(job)
	if res.HasSpeakers {
		t.Error("single distinct speaker must not set HasSpeakers")
	}
	if res.Utterances != nil {
		t.Error("single-speaker result must not carry utterances")
	}
	if strings.Contains(res.Text, "**Speaker") {
		t.Errorf("single-speaker text must not carry markers: %q", res.Text)
	}
	if res.Text != job.Text {
		t.Errorf("text = %q, want raw job text", res.Text)
	}
	if res.Source != SourceTranscription {
		t.Errorf("source = %q", res.Source)
	}

	if len(res.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(res.Segments))
	}
	if res.Segments[1].OffsetMs != 400 || res.Segments[1].DurationMs != 500 {
		t.Errorf("segment timing = %d/%d, want 400/500", res.Segments[1].OffsetMs, res.Segments[1].DurationMs)
	}
}

func TestNormalizeJob_MultiSpeaker(t *testing.T) {
	job := &transcriptJobResp{
		Text: "hi there hello back",
		Utterances: []apiUtterance{
			{Speaker: "A", Text: "hi there", Start: 0, End: 1000},
			{Speaker: "B", Text: "hello back", Start: 1000, End: 2000},
			{Speaker: "A", Text: "great", Start: 2000, End: 2500},
		},
	}

	res := normalizeJob(job)
	if !res.HasSpeakers {
		t.Fatal("two distinct speakers must set HasSpeakers")
	}
	if len(res.Utterances) != 3 {
		t.Fatalf("got %d utterances, want 3", len(res.Utterances))
	}

	want := "**Speaker A:** hi there\n\n**Speaker B:** hello back\n\n**Speaker A:** great"
	if res.Text != want {
		t.Errorf("marked text = %q\nwant %q", res.Text, want)
	}
}

func TestNormalizeJob_RepeatedSingleSpeaker(t *testing.T) {
	// Multiple utterances, but all from one speaker: no markers.
	job := &transcriptJobResp{
		Text: "part one part two",
		Utterances: []apiUtterance{
			{Speaker: "A", Text: "part one", Start: 0, End: 1000},
			{Speaker: "A", Text: "part two", Start: 1000, End: 2000},
		},
	}
	res := normalizeJob(job)
	if res.HasSpeakers {
		t.Error("repeated single speaker must not set HasSpeakers")
	}
	if res.Text != "part one part two" {
		t.Errorf("text = %q", res.Text)
	}
}
