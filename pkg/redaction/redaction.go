// Package redaction masks provider credentials before they reach any log
// sink. The only secret this process holds is the ElevenLabs API key, but
// the patterns cover the common shapes a key can leak through: raw sk_
// tokens, xi-api-key headers, api_key fields and bearer tokens.
package redaction

import (
	"fmt"
	"regexp"
	"sync"
)

// Config holds redaction configuration.
type Config struct {
	// Enabled controls whether redaction is active.
	Enabled bool `json:"enabled"`

	// CustomPatterns allows additional regex patterns to redact.
	CustomPatterns []string `json:"custom_patterns"`

	// Replacement is the string used to replace sensitive data.
	Replacement string `json:"replacement"`
}

// DefaultConfig returns the default redaction configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		Replacement: "[REDACTED]",
	}
}

var builtinPatterns = []string{
	// ElevenLabs-style secret keys
	`\bsk_[A-Za-z0-9]{16,}\b`,
	// xi-api-key header values
	`(?i)(xi-api-key["':\s=]+)[^\s"',}]+`,
	// generic api_key / apikey assignments
	`(?i)\b(api[_-]?key["':\s=]+)[^\s"',}]+`,
	// bearer tokens
	`(?i)\b(bearer\s+)[A-Za-z0-9._~+/-]+=*`,
}

// Redactor applies the configured masking patterns.
type Redactor struct {
	mu       sync.RWMutex
	config   Config
	compiled []*regexp.Regexp
}

// NewRedactor creates a Redactor with the given configuration. Custom
// patterns that fail to compile are skipped.
func NewRedactor(config Config) *Redactor {
	r := &Redactor{config: config}
	patterns := append(append([]string{}, builtinPatterns...), config.CustomPatterns...)
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err == nil {
			r.compiled = append(r.compiled, re)
		}
	}
	return r
}

// Redact masks sensitive material in s.
func (r *Redactor) Redact(s string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.config.Enabled {
		return s
	}
	for _, re := range r.compiled {
		if re.NumSubexp() > 0 {
			s = re.ReplaceAllString(s, "${1}"+r.config.Replacement)
		} else {
			s = re.ReplaceAllString(s, r.config.Replacement)
		}
	}
	return s
}

// RedactFields returns a copy of fields with string values redacted.
func (r *Redactor) RedactFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			out[k] = r.Redact(val)
		case error:
			out[k] = r.Redact(val.Error())
		case fmt.Stringer:
			out[k] = r.Redact(val.String())
		default:
			out[k] = v
		}
	}
	return out
}

// SetConfig replaces the redactor configuration.
func (r *Redactor) SetConfig(config Config) {
	updated := NewRedactor(config)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = updated.config
	r.compiled = updated.compiled
}

var defaultRedactor = NewRedactor(DefaultConfig())

// Redact masks sensitive material using the default redactor.
func Redact(s string) string {
	return defaultRedactor.Redact(s)
}

// RedactFields masks string field values using the default redactor.
func RedactFields(fields map[string]any) map[string]any {
	return defaultRedactor.RedactFields(fields)
}

// Configure replaces the default redactor configuration.
func Configure(config Config) {
	defaultRedactor.SetConfig(config)
}
