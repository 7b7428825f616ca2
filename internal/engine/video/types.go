package video

// --- Transcript types ---

// Segment is one timed piece of transcript text. Segments are ordered
// chronologically; adjacent segments from caption sources may overlap.
type Segment struct {
	Text       string `json:"text"`
	OffsetMs   int64  `json:"offset"`   // start time in milliseconds
	DurationMs int64  `json:"duration"` // duration in milliseconds
}

// Utterance is one diarized span of speech attributed to a speaker label.
type Utterance struct {
	Speaker string `json:"speaker"` // single-letter label: A, B, ...
	Text    string `json:"text"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// Source identifies which acquisition tier produced a transcript.
type Source string

const (
	SourceCaptions      Source = "captions"
	SourceTranscription Source = "transcription-service"
)

// TranscriptResult is the single normalized output of the acquisition
// cascade. Utterances is nil unless diarization found 2+ distinct speakers;
// HasSpeakers is true exactly when it is non-nil, and Text then carries
// inline speaker markers.
type TranscriptResult struct {
	Text        string      `json:"text"`
	Segments    []Segment   `json:"segments"`
	Source      Source      `json:"source"`
	Utterances  []Utterance `json:"utterances,omitempty"`
	HasSpeakers bool        `json:"has_speakers"`
}

// --- Audio types ---

// AudioPayload is a fully buffered audio stream for one video. Owned by the
// extraction call that produced it; handed to the transcriber and dropped.
type AudioPayload struct {
	Data           []byte
	DurationSec    int
	EstimatedBytes int64 // declared content length, 0 if unknown
}

// --- Metadata ---

// Metadata is the oEmbed lookup result for a video.
type Metadata struct {
	Title           string `json:"title"`
	AuthorName      string `json:"author_name"`
	AuthorURL       string `json:"author_url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	ThumbnailWidth  int    `json:"thumbnail_width"`
	ThumbnailHeight int    `json:"thumbnail_height"`
}

// --- Chunking ---

// Chunk is a bounded, sentence-aligned slice of a transcript. Index values
// run 0..Total-1 and Total is identical across one batch.
type Chunk struct {
	Text        string `json:"text"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	StartOffset int    `json:"start_offset"` // character offset in the original text
}

// OutputKind selects a generation pipeline.
type OutputKind string

const (
	KindSummary   OutputKind = "summary"
	KindKeyPoints OutputKind = "keypoints"
	KindOutline   OutputKind = "outline"
)

// ValidKind reports whether k names a known output kind.
func ValidKind(k OutputKind) bool {
	switch k {
	case KindSummary, KindKeyPoints, KindOutline:
		return true
	}
	return false
}
