// Package protocol implements the wire-level contract described in
// spec §4.1/§4.2/§6.2: a 4-byte big-endian length-prefixed framing
// layer, and the Request/Response/Event payload schema layered on top
// of it.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
)

// DefaultMaxFrameBytes is the hard limit on a single frame's payload
// size (spec §4.1). Frames larger than this are a fatal transport
// error: the connection is closed, never silently truncated.
const DefaultMaxFrameBytes = 64 * 1024 * 1024

// ErrFrameTooLarge is returned when a frame's declared length exceeds
// the configured limit.
var ErrFrameTooLarge = errors.New("protocol: frame exceeds maximum size")

// FrameCodec reads and writes length-prefixed frames on a single
// net.Conn-like stream. Reads and writes can proceed concurrently: the
// dispatcher reads while the event pump writes.
type FrameCodec struct {
	r  io.Reader
	w  io.Writer
	wg sync.Mutex // outbound write mutex, held only around one frame (spec §5)

	maxFrameBytes uint32
}

// NewFrameCodec wraps rw with framing. maxFrameBytes of 0 selects
// DefaultMaxFrameBytes.
func NewFrameCodec(r io.Reader, w io.Writer, maxFrameBytes uint32) *FrameCodec {
	if maxFrameBytes == 0 {
		maxFrameBytes = DefaultMaxFrameBytes
	}
	return &FrameCodec{r: r, w: w, maxFrameBytes: maxFrameBytes}
}

// ReadFrame blocks for exactly one frame: a 4-byte length prefix
// followed by that many payload bytes, draining short reads until the
// frame is fully assembled. EOF before the length prefix is returned
// as io.EOF, which the dispatcher treats as a clean end-of-stream; EOF
// inside a frame wraps io.ErrUnexpectedEOF and is a fatal transport
// error (spec §7).
func (c *FrameCodec) ReadFrame() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("protocol: eof mid frame-length: %w", err)
		}
		return nil, err
	}

	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > c.maxFrameBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, c.maxFrameBytes)
	}

	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(c.r, payload); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("protocol: eof mid frame-payload: %w", io.ErrUnexpectedEOF)
			}
			return nil, err
		}
	}
	return payload, nil
}

// WriteFrame serializes one frame under the outbound write mutex,
// retrying partial writes until the whole frame is on the wire or an
// I/O error occurs. No other goroutine's frame can interleave with
// this one (spec §4.1/§5).
func (c *FrameCodec) WriteFrame(payload []byte) error {
	if uint32(len(payload)) > c.maxFrameBytes {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(payload), c.maxFrameBytes)
	}

	c.wg.Lock()
	defer c.wg.Unlock()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))

	if err := writeAll(c.w, lenBuf[:]); err != nil {
		return err
	}
	return writeAll(c.w, payload)
}

// writeAll retries until every byte is written or an error occurs,
// covering the partial-write case on a TCP socket.
func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
