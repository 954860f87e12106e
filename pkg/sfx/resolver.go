// Package sfx owns the output-path resolution for generated sound
// effects and the resolve→generate→write flow around the provider.
package sfx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFilename marks an output_filename that is unusable after
// sanitizing, e.g. "..", "." or a bare path separator.
var ErrInvalidFilename = errors.New("invalid output filename")

// PathError is a local filesystem failure during resolution or write,
// kept distinct from provider failures so diagnostics can tell a disk
// problem from a provider problem.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Probe answers filename-existence queries during resolution. It exists
// as a seam so tests can substitute an in-memory filesystem view.
type Probe interface {
	Exists(path string) bool
}

type osProbe struct{}

func (osProbe) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// OSProbe returns a Probe backed by the real filesystem.
func OSProbe() Probe { return osProbe{} }

// ResolvedTarget is the finalized output location for one request.
type ResolvedTarget struct {
	Dir      string
	Filename string
	Path     string
}

// Resolver computes unique absolute output paths from optional caller
// hints and a default root.
type Resolver struct {
	// DefaultRoot receives files when the caller gives no directory hint.
	DefaultRoot string

	// Probe is consulted for collision checks. Defaults to the OS.
	Probe Probe

	// NewID generates default filenames. Defaults to random UUIDs.
	NewID func() string
}

// NewResolver creates a Resolver writing to defaultRoot by default.
func NewResolver(defaultRoot string) *Resolver {
	return &Resolver{
		DefaultRoot: defaultRoot,
		Probe:       OSProbe(),
		NewID:       func() string { return uuid.New().String() },
	}
}

// Resolve picks the target directory and a non-colliding filename, and
// creates the directory if needed.
//
// The existence probe is a plain check at resolution time, not a
// reservation: two concurrent calls with the same user-supplied filename
// can race to the same versioned name. That window is accepted, callers
// needing stronger guarantees must serialize themselves.
func (r *Resolver) Resolve(outputDir, outputFilename string) (ResolvedTarget, error) {
	dir := expandHome(strings.TrimSpace(outputDir))
	if dir == "" {
		dir = r.DefaultRoot
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ResolvedTarget{}, &PathError{Op: "resolve", Path: dir, Err: err}
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return ResolvedTarget{}, &PathError{Op: "create", Path: absDir, Err: err}
	}

	name, err := r.chooseFilename(outputFilename)
	if err != nil {
		return ResolvedTarget{}, err
	}

	final := r.version(absDir, name)
	return ResolvedTarget{
		Dir:      absDir,
		Filename: final,
		Path:     filepath.Join(absDir, final),
	}, nil
}

func (r *Resolver) chooseFilename(outputFilename string) (string, error) {
	name := strings.TrimSpace(outputFilename)
	if name == "" {
		return "sfx_" + r.NewID() + ".mp3", nil
	}

	// Reduce to the base-name component so a hostile filename cannot
	// escape the target directory.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, outputFilename)
	}

	if filepath.Ext(name) == "" {
		name += ".mp3"
	}
	return name, nil
}

// version probes name in dir and appends _v2, _v3, ... until an unused
// name is found.
func (r *Resolver) version(dir, name string) string {
	probe := r.Probe
	if probe == nil {
		probe = OSProbe()
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	final := name
	for v := 2; probe.Exists(filepath.Join(dir, final)); v++ {
		final = fmt.Sprintf("%s_v%d%s", stem, v, ext)
	}
	return final
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
