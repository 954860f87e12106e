package sfx

import (
	"context"
	"os"

	"github.com/ronnqvist/sfx-mcp/pkg/logger"
)

// GenerateParams is what the provider needs for one generation call.
type GenerateParams struct {
	Text            string
	DurationSeconds *float64
	PromptInfluence *float64
}

// Generator produces raw audio bytes for a prompt. Implemented by the
// ElevenLabs client; faked in tests.
type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]byte, error)
}

// Request is one generate-sound-effect invocation as received from the
// tool boundary.
type Request struct {
	Text            string
	DurationSeconds *float64
	PromptInfluence *float64
	OutputDirectory string
	OutputFilename  string
}

// Service runs the resolve → generate → write flow. It keeps no state
// between calls beyond the files it writes.
type Service struct {
	resolver  *Resolver
	generator Generator
}

func NewService(resolver *Resolver, generator Generator) *Service {
	return &Service{resolver: resolver, generator: generator}
}

// Generate resolves the output path, asks the provider for audio, and
// writes it. The absolute path is returned only after the write
// completed and the file is present; a failed write never reports
// success even when generation succeeded.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	target, err := s.resolver.Resolve(req.OutputDirectory, req.OutputFilename)
	if err != nil {
		return "", err
	}

	audio, err := s.generator.Generate(ctx, GenerateParams{
		Text:            req.Text,
		DurationSeconds: req.DurationSeconds,
		PromptInfluence: req.PromptInfluence,
	})
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(target.Path, audio, 0o644); err != nil {
		return "", &PathError{Op: "write", Path: target.Path, Err: err}
	}
	if _, err := os.Stat(target.Path); err != nil {
		return "", &PathError{Op: "stat", Path: target.Path, Err: err}
	}

	logger.InfoCF("sfx", "Sound effect written", map[string]any{
		"path":       target.Path,
		"size_bytes": len(audio),
	})
	return target.Path, nil
}
