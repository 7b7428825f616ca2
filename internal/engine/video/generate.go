package video

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

// Generate produces the requested output kind from a transcript. Small
// transcripts go through a single model call; large ones are chunked, the
// chunks dispatched concurrently with fail-fast semantics, and the partial
// results merged in a final pass.
func Generate(ctx context.Context, transcript, title string, kind OutputKind) (string, error) {
	if !ValidKind(kind) {
		return "", fmt.Errorf("%w: unknown output kind %q", ErrGeneration, kind)
	}
	params := kindTable[kind]

	if !NeedsChunking(transcript) {
		out, err := engine.CallLLMWith(ctx, params.System,
			buildPrompt(kind, title, transcript, nil), params.Temperature, params.MaxTokens)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrGeneration, err)
		}
		return out, nil
	}

	engine.IncrChunkedTranscripts()
	chunks := ChunkTranscript(transcript)
	slog.Info("generating from chunked transcript",
		"kind", kind, "chunks", len(chunks), "tokens_est", EstimateTokens(transcript))

	parts := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range chunks {
		g.Go(func() error {
			out, err := engine.CallLLMWith(gctx, params.System,
				buildPrompt(kind, title, c.Text, &c), params.Temperature, params.MaxTokens)
			if err != nil {
				return fmt.Errorf("chunk %d/%d: %w", c.Index+1, c.Total, err)
			}
			parts[c.Index] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	merged, err := engine.CallLLMWith(ctx, params.System,
		BuildMergePrompt(kind, title, parts), params.Temperature, params.MaxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: merge: %w", ErrGeneration, err)
	}
	return merged, nil
}
