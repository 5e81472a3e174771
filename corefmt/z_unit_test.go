package corefmt

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapRoundTrip(t *testing.T) {
	raw := []byte{0, 1, 2, 250, 251, 252, 253, 254, 255}
	s := EncodeSnap(raw)
	require.NotContains(t, s, "=")
	require.NotContains(t, s, "+")
	got, err := DecodeSnap(s)
	require.NoError(t, err)
	require.Equal(t, raw, got)

	_, err = DecodeSnap("")
	require.Error(t, err)
	_, err = DecodeSnap("not base64!")
	require.Error(t, err)
}

func TestFramesReadInOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("first")))
	require.NoError(t, WriteFrame(&buf, nil))
	require.NoError(t, WriteFrame(&buf, bytes.Repeat([]byte{7}, 300)))

	fr := NewFrameReader(&buf)
	a, err := fr.Next()
	require.NoError(t, err)
	require.Equal(t, "first", string(a))
	b, err := fr.Next()
	require.NoError(t, err)
	require.Empty(t, b)
	c, err := fr.Next()
	require.NoError(t, err)
	require.Len(t, c, 300)
	_, err = fr.Next()
	require.True(t, errors.Is(err, io.EOF))
}

func TestFrameRejectsTruncatedAndOversized(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("payload")))
	trunc := buf.Bytes()[:buf.Len()-2]
	_, err := NewFrameReader(bytes.NewReader(trunc)).Next()
	require.Error(t, err)
	require.False(t, errors.Is(err, io.EOF))

	var big bytes.Buffer
	require.NoError(t, WriteFrame(&big, make([]byte, MaxSnapBytes+1)))
	_, err = NewFrameReader(&big).Next()
	require.Error(t, err)
}
