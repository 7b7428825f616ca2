package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Speech tier: submit extracted audio to AssemblyAI and normalize the
// diarized result into a TranscriptResult.

const assemblyAIBase = "https://api.assemblyai.com/v2"

type transcriptJobReq struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
}

type transcriptJobResp struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"` // queued | processing | completed | error
	Text       string         `json:"text"`
	Error      string         `json:"error"`
	Words      []apiWord      `json:"words"`
	Utterances []apiUtterance `json:"utterances"`
}

type apiWord struct {
	Text  string `json:"text"`
	Start int64  `json:"start"` // milliseconds
	End   int64  `json:"end"`
}

type apiUtterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// Transcribe uploads audio, starts a diarized transcription job, and polls
// until it settles.
func Transcribe(ctx context.Context, audio *AudioPayload) (*TranscriptResult, error) {
	engine.IncrTranscriptionJobs()

	if engine.Cfg.TranscribeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, engine.Cfg.TranscribeTimeout)
		defer cancel()
	}

	audioURL, err := uploadAudio(ctx, audio.Data)
	if err != nil {
		engine.IncrTranscriptionErrors()
		return nil, fmt.Errorf("%w: upload: %w", ErrTranscriptionFailed, err)
	}

	jobID, err := createJob(ctx, audioURL)
	if err != nil {
		engine.IncrTranscriptionErrors()
		return nil, fmt.Errorf("%w: create job: %w", ErrTranscriptionFailed, err)
	}
	slog.Info("transcription job started", "job_id", jobID, "audio_bytes", len(audio.Data))

	job, err := pollJob(ctx, jobID)
	if err != nil {
		engine.IncrTranscriptionErrors()
		return nil, err
	}
	if job.Text == "" {
		engine.IncrTranscriptionErrors()
		return nil, ErrEmptyTranscript
	}

	return normalizeJob(job), nil
}

func uploadAudio(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, assemblyAIBase+"/upload", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", engine.Cfg.AssemblyAIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("upload: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("upload: no upload_url in response")
	}
	return out.UploadURL, nil
}

func createJob(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(transcriptJobReq{AudioURL: audioURL, SpeakerLabels: true})
	if err != nil {
		return "", err
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, assemblyAIBase+"/transcript", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", engine.Cfg.AssemblyAIKey)
		req.Header.Set("Content-Type", "application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("create transcript: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var out transcriptJobResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("create transcript: no job id in response")
	}
	return out.ID, nil
}

// pollJob polls until the job reaches a terminal status. Polling uses a
// capped exponential backoff; a job reporting status "error" is terminal.
func pollJob(ctx context.Context, jobID string) (*transcriptJobResp, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = engine.Cfg.TranscribePollWait
	bo.MaxInterval = 15 * time.Second

	return backoff.Retry(ctx, func() (*transcriptJobResp, error) {
		job, err := getJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		switch job.Status {
		case "completed":
			return job, nil
		case "error":
			return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrTranscriptionFailed, job.Error))
		default:
			return nil, fmt.Errorf("job %s still %s", jobID, job.Status)
		}
	}, backoff.WithBackOff(bo), backoff.WithMaxElapsedTime(engine.Cfg.TranscribeTimeout))
}

func getJob(ctx context.Context, jobID string) (*transcriptJobResp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assemblyAIBase+"/transcript/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", engine.Cfg.AssemblyAIKey)

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get transcript: HTTP %d", resp.StatusCode)
	}

	var out transcriptJobResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// normalizeJob converts a completed job into the cascade's common shape.
// Speaker markers are emitted only when diarization found two or more
// distinct speakers; a single-speaker result reads as plain prose.
func normalizeJob(job *transcriptJobResp) *TranscriptResult {
	res := &TranscriptResult{
		Text:   job.Text,
		Source: SourceTranscription,
	}

	res.Segments = make([]Segment, 0, len(job.Words))
	for _, w := range job.Words {
		res.Segments = append(res.Segments, Segment{
			Text:       w.Text,
			OffsetMs:   w.Start,
			DurationMs: w.End - w.Start,
		})
	}

	speakers := map[string]struct{}{}
	for _, u := range job.Utterances {
		speakers[u.Speaker] = struct{}{}
	}
	if len(speakers) < 2 {
		return res
	}

	res.HasSpeakers = true
	res.Utterances = make([]Utterance, 0, len(job.Utterances))
	marked := make([]string, 0, len(job.Utterances))
	for _, u := range job.Utterances {
		res.Utterances = append(res.Utterances, Utterance{
			Speaker: u.Speaker,
			Text:    u.Text,
			StartMs: u.Start,
			EndMs:   u.End,
		})
		marked = append(marked, fmt.Sprintf("**Speaker %s:** %s", u.Speaker, u.Text))
	}
	res.Text = strings.Join(marked, "\n\n")
	return res
}
