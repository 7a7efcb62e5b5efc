package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FRAME ROUND-TRIP TESTS
// =============================================================================

func TestFrameCodec_WriteThenRead(t *testing.T) {
	var buf bytes.Buffer
	codec := NewFrameCodec(&buf, &buf, 0)

	payload := []byte("hello debugger")
	require.NoError(t, codec.WriteFrame(payload))

	got, err := codec.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrameCodec_EmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	codec := NewFrameCodec(&buf, &buf, 0)

	require.NoError(t, codec.WriteFrame(nil))

	got, err := codec.ReadFrame()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFrameCodec_MultipleFrames(t *testing.T) {
	var buf bytes.Buffer
	codec := NewFrameCodec(&buf, &buf, 0)

	frames := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for _, f := range frames {
		require.NoError(t, codec.WriteFrame(f))
	}

	for _, want := range frames {
		got, err := codec.ReadFrame()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// =============================================================================
// TRUNCATION / OVERSIZE TESTS
// =============================================================================

func TestFrameCodec_EOFBeforeLength(t *testing.T) {
	codec := NewFrameCodec(bytes.NewReader(nil), io.Discard, 0)
	_, err := codec.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameCodec_EOFMidPayload(t *testing.T) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], 10)
	truncated := append(lenBuf[:], []byte("short")...)

	codec := NewFrameCodec(bytes.NewReader(truncated), io.Discard, 0)
	_, err := codec.ReadFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestFrameCodec_RejectsOversizeFrame(t *testing.T) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], 1024)

	codec := NewFrameCodec(bytes.NewReader(lenBuf[:]), io.Discard, 16)
	_, err := codec.ReadFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestFrameCodec_WriteRejectsOversizePayload(t *testing.T) {
	var buf bytes.Buffer
	codec := NewFrameCodec(&buf, &buf, 4)
	err := codec.WriteFrame([]byte("too long"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

// =============================================================================
// CONCURRENCY
// =============================================================================

// slowWriter introduces partial writes to exercise writeAll's retry loop.
type slowWriter struct {
	buf bytes.Buffer
}

func (s *slowWriter) Write(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return s.buf.Write(p)
}

func TestFrameCodec_WriteFrame_PartialWrites(t *testing.T) {
	sw := &slowWriter{}
	codec := NewFrameCodec(&sw.buf, sw, 0)

	payload := []byte("partial-write-payload")
	require.NoError(t, codec.WriteFrame(payload))

	readCodec := NewFrameCodec(&sw.buf, io.Discard, 0)
	got, err := readCodec.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
