package video

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// AcquireTranscript runs the two-tier cascade: platform captions first,
// then audio extraction plus speech transcription. When both tiers fail
// the caption-tier error is returned; captions are the authoritative
// signal of whether a transcript exists, and the audio tier's failure is
// usually a downstream consequence of the same condition.
//
// Text on the result is final display text: caption segments are reflowed
// into paragraphs here, and transcription text already carries speaker
// markers when diarization found multiple speakers.
func AcquireTranscript(ctx context.Context, videoID string) (*TranscriptResult, error) {
	defer engine.TrackOperation("acquire_transcript")()

	res, capErr := FetchCaptions(ctx, videoID)
	if capErr == nil {
		res.Text = FormatSegments(res.Segments)
		slog.Info("transcript acquired from captions",
			"video_id", videoID, "segments", len(res.Segments))
		return res, nil
	}
	slog.Warn("caption tier failed, falling back to audio transcription",
		"video_id", videoID, "error", capErr)

	audio, err := ExtractAudio(ctx, videoID)
	if err != nil {
		slog.Error("audio tier failed", "video_id", videoID, "error", err)
		return nil, capErr
	}

	res, err = Transcribe(ctx, audio)
	if err != nil {
		slog.Error("transcription tier failed", "video_id", videoID, "error", err)
		return nil, capErr
	}

	slog.Info("transcript acquired from transcription service",
		"video_id", videoID, "speakers", res.HasSpeakers)
	return res, nil
}
