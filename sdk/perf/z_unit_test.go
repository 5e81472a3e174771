package perf

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "cpu", "heap", "allocs"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		require.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("trace")
	require.Error(t, err)
}

func TestRunWritesProfile(t *testing.T) {
	dir := t.TempDir()
	called := 0
	exe := func() error { called++; return nil }

	path, err := Run(exe, ModeNone, dir)
	require.NoError(t, err)
	require.Empty(t, path)

	for _, m := range []Mode{ModeCPU, ModeHeap, ModeAllocs} {
		path, err := Run(exe, m, dir)
		require.NoError(t, err)
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Positive(t, fi.Size())
	}
	require.Equal(t, 4, called)
}

func TestRunReturnsExeError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(func() error { return boom }, ModeHeap, t.TempDir())
	require.ErrorIs(t, err, boom)
	_, err = Run(func() error { return boom }, ModeCPU, t.TempDir())
	require.ErrorIs(t, err, boom)
}
