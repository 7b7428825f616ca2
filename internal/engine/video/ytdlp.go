package video

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// yt-dlp fallback: an external downloader that keeps working when direct
// Innertube extraction is blocked. The audio lands in a temp file that is
// removed before returning, success or not.

// ytdlpExtract shells out to yt-dlp for the best audio stream.
func ytdlpExtract(ctx context.Context, videoID string) (*AudioPayload, error) {
	engine.IncrYtDlpInvocations()

	bin := engine.Cfg.YtDlpPath
	if bin == "" {
		bin = "yt-dlp"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("yt-dlp not installed: %w", err)
	}

	dir, err := os.MkdirTemp("", "gorecap-audio-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	outTmpl := filepath.Join(dir, "audio.%(ext)s")

	args := []string{
		"-f", "bestaudio",
		"-o", outTmpl,
		"--no-playlist",
		"--no-warnings",
		"--no-progress",
		"--extractor-args", "youtube:player_client=" + strings.Join(engine.Cfg.AudioClients, ","),
		"https://www.youtube.com/watch?v=" + videoID,
	}
	if engine.Cfg.YtDlpCookiesBrowser != "" {
		args = append(args, "--cookies-from-browser", engine.Cfg.YtDlpCookiesBrowser)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("invoking yt-dlp", "video_id", videoID, "bin", bin)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		return nil, fmt.Errorf("yt-dlp: %w: %s", err, msg)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "audio.*"))
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("yt-dlp produced no output file")
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("yt-dlp produced empty file %s", filepath.Base(matches[0]))
	}

	return &AudioPayload{Data: data, EstimatedBytes: int64(len(data))}, nil
}
