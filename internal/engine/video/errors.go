package video

import "errors"

// Sentinel errors for the acquisition and generation pipeline. Callers
// classify failures with errors.Is; wrapped messages carry the detail.
var (
	ErrInvalidVideoID      = errors.New("not a valid video identifier")
	ErrVideoNotFound       = errors.New("video not found")
	ErrVideoUnavailable    = errors.New("video is unavailable")
	ErrAgeRestricted       = errors.New("video requires age verification")
	ErrRegionBlocked       = errors.New("video is not available in this region")
	ErrDurationExceeded    = errors.New("video exceeds maximum supported duration")
	ErrNoTranscript        = errors.New("no transcript available for this video")
	ErrCaptionFetch        = errors.New("failed to fetch captions")
	ErrExtractionFailed    = errors.New("failed to extract audio")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrEmptyTranscript     = errors.New("no transcript text returned")
	ErrMetadataFetch       = errors.New("failed to fetch video metadata")
	ErrGeneration          = errors.New("generation failed")
)
