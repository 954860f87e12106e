package sfx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	audio  []byte
	err    error
	called int
	got    GenerateParams
}

func (g *fakeGenerator) Generate(_ context.Context, params GenerateParams) ([]byte, error) {
	g.called++
	g.got = params
	return g.audio, g.err
}

func TestServiceGenerateWritesFile(t *testing.T) {
	root := t.TempDir()
	gen := &fakeGenerator{audio: []byte("mp3-bytes")}
	svc := NewService(NewResolver(root), gen)

	duration := 3.0
	path, err := svc.Generate(context.Background(), Request{
		Text:            "a cat meowing",
		DurationSeconds: &duration,
	})
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Regexp(t, defaultNamePattern, filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), data)
	assert.NotZero(t, len(data))

	assert.Equal(t, 1, gen.called)
	assert.Equal(t, "a cat meowing", gen.got.Text)
	require.NotNil(t, gen.got.DurationSeconds)
	assert.Equal(t, 3.0, *gen.got.DurationSeconds)
}

func TestServiceGenerateProviderFailureWritesNothing(t *testing.T) {
	root := t.TempDir()
	gen := &fakeGenerator{err: errors.New("provider down")}
	svc := NewService(NewResolver(root), gen)

	_, err := svc.Generate(context.Background(), Request{Text: "rain"})
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file may exist after a failed generation")
}

func TestServiceGenerateResolverFailureSkipsProvider(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	gen := &fakeGenerator{audio: []byte("audio")}
	svc := NewService(NewResolver(filepath.Join(blocker, "out")), gen)

	_, err := svc.Generate(context.Background(), Request{Text: "rain"})

	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Zero(t, gen.called, "provider must not be invoked when resolution fails")
}

func TestServiceGenerateHonorsFilenameHints(t *testing.T) {
	root := t.TempDir()
	gen := &fakeGenerator{audio: []byte("audio")}
	svc := NewService(NewResolver(root), gen)

	path, err := svc.Generate(context.Background(), Request{
		Text:           "thunder",
		OutputFilename: "thunder",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "thunder.mp3"), path)

	// The file now exists, so an identical request gets a versioned name.
	path2, err := svc.Generate(context.Background(), Request{
		Text:           "thunder",
		OutputFilename: "thunder",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "thunder_v2.mp3"), path2)
}

func TestServiceGenerateOutputDirectoryHint(t *testing.T) {
	root := t.TempDir()
	other := filepath.Join(t.TempDir(), "elsewhere")
	gen := &fakeGenerator{audio: []byte("audio")}
	svc := NewService(NewResolver(root), gen)

	path, err := svc.Generate(context.Background(), Request{
		Text:            "wind",
		OutputDirectory: other,
		OutputFilename:  "wind.mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(other, "wind.mp3"), path)
}
