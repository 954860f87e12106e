// Package elevenlabs is a minimal client for the ElevenLabs
// sound-generation endpoint. Failures are classified into a closed Kind
// taxonomy at the point they occur; no retries are performed here, retry
// policy belongs to the caller.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ronnqvist/sfx-mcp/pkg/logger"
)

const (
	DefaultAPIBase = "https://api.elevenlabs.io"

	DefaultDurationSeconds = 5.0
	DefaultPromptInfluence = 0.3
	DefaultOutputFormat    = "mp3_44100_128"

	MinDurationSeconds = 0.5
	MaxDurationSeconds = 22.0
	MinPromptInfluence = 0.0
	MaxPromptInfluence = 1.0
)

// Client calls the ElevenLabs sound-generation API.
type Client struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

// SoundEffectRequest describes one generation call. Nil optionals fall
// back to the provider defaults above.
type SoundEffectRequest struct {
	Text            string
	DurationSeconds *float64
	PromptInfluence *float64
}

type soundGenerationBody struct {
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"duration_seconds"`
	PromptInfluence float64 `json:"prompt_influence"`
	OutputFormat    string  `json:"output_format,omitempty"`
}

// NewClient creates a Client. apiBase defaults to the public API.
func NewClient(apiKey, apiBase string) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		apiKey:  apiKey,
		apiBase: strings.TrimRight(apiBase, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// GenerateSoundEffect turns a text prompt into mp3 audio bytes.
func (c *Client) GenerateSoundEffect(ctx context.Context, req SoundEffectRequest) ([]byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, newError(KindAPIKeyMissing, 0,
			"ELEVENLABS_API_KEY is not configured")
	}

	duration := DefaultDurationSeconds
	if req.DurationSeconds != nil {
		duration = *req.DurationSeconds
	}
	influence := DefaultPromptInfluence
	if req.PromptInfluence != nil {
		influence = *req.PromptInfluence
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, newError(KindInvalidParameter, 0,
			"text prompt cannot be empty or whitespace only")
	}
	if duration < MinDurationSeconds || duration > MaxDurationSeconds {
		return nil, newError(KindInvalidParameter, 0,
			"duration must be between %g and %g seconds, got %g",
			MinDurationSeconds, MaxDurationSeconds, duration)
	}
	if influence < MinPromptInfluence || influence > MaxPromptInfluence {
		return nil, newError(KindInvalidParameter, 0,
			"prompt influence must be between %g and %g, got %g",
			MinPromptInfluence, MaxPromptInfluence, influence)
	}

	logger.DebugCF("elevenlabs", "Generating sound effect", map[string]any{
		"text_length":      len(req.Text),
		"duration_seconds": duration,
		"prompt_influence": influence,
	})

	body, err := json.Marshal(soundGenerationBody{
		Text:            req.Text,
		DurationSeconds: duration,
		PromptInfluence: influence,
		OutputFormat:    DefaultOutputFormat,
	})
	if err != nil {
		return nil, newError(KindUnexpected, 0, "marshal generation request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/v1/sound-generation", bytes.NewReader(body))
	if err != nil {
		return nil, newError(KindUnexpected, 0, "build generation request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, newError(KindProviderAPI, 0, "sound generation request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyStatus(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindProviderAPI, resp.StatusCode,
			"read generated audio: %v", err)
	}
	if len(audio) == 0 {
		return nil, newError(KindGenerationFailed, resp.StatusCode,
			"provider returned empty audio")
	}

	logger.InfoCF("elevenlabs", "Sound effect generated", map[string]any{
		"size_bytes": len(audio),
	})
	return audio, nil
}

func (c *Client) classifyStatus(resp *http.Response) *Error {
	detail := readErrorDetail(resp.Body)
	status := resp.StatusCode

	logger.WarnCF("elevenlabs", "Provider returned error status", map[string]any{
		"status": status,
		"detail": detail,
	})

	switch {
	case status == http.StatusUnauthorized:
		return newError(KindAPIKeyMissing, status,
			"invalid API key or authentication failed: %s", detail)
	case status == http.StatusForbidden:
		return newError(KindPermissionDenied, status,
			"permission denied, the API key may lack permissions: %s", detail)
	case status == http.StatusTooManyRequests:
		return newError(KindRateLimited, status,
			"API rate limit exceeded: %s", detail)
	case status == http.StatusBadRequest:
		return newError(KindGenerationFailed, status,
			"bad request to provider: %s", detail)
	case status >= 500:
		return newError(KindGenerationFailed, status,
			"provider server error: %s", detail)
	default:
		return newError(KindProviderAPI, status,
			"unhandled provider error: %s", detail)
	}
}

// readErrorDetail pulls a human-readable message out of an ElevenLabs
// error body. The API wraps messages as {"detail": {"message": ...}} or
// {"detail": "..."}; anything else is returned as raw text.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 8192))
	if err != nil || len(raw) == 0 {
		return "(no error detail)"
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) == nil && len(envelope.Detail) > 0 {
		var asString string
		if json.Unmarshal(envelope.Detail, &asString) == nil {
			return asString
		}
		var asObject struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Detail, &asObject) == nil && asObject.Message != "" {
			return asObject.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
