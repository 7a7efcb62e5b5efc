package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// WRITER/READER ROUND-TRIP TESTS
// =============================================================================

func TestWriterReader_Primitives(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(7)
	w.WriteUint32(1 << 20)
	w.WriteInt32(-42)
	w.WriteUint64(1 << 40)
	w.WriteInt64(-1)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteFloat64(3.5)

	r := NewReader(w.Bytes())

	u8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u8)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<20), u32)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-42), i32)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u64)

	i64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i64)

	b1, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b1)

	b2, err := r.ReadBool()
	require.NoError(t, err)
	assert.False(t, b2)

	f, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)

	assert.True(t, r.Done())
}

func TestWriterReader_Strings(t *testing.T) {
	w := NewWriter()
	w.WriteString("hello")
	w.WriteString("")
	present := "present"
	w.WriteOptString(&present)
	w.WriteOptString(nil)
	w.WriteStringSlice([]string{"a", "b", "c"})

	r := NewReader(w.Bytes())

	s1, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s1)

	s2, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "", s2)

	opt1, err := r.ReadOptString()
	require.NoError(t, err)
	require.NotNil(t, opt1)
	assert.Equal(t, "present", *opt1)

	opt2, err := r.ReadOptString()
	require.NoError(t, err)
	assert.Nil(t, opt2)

	ss, err := r.ReadStringSlice()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ss)

	assert.True(t, r.Done())
}

func TestWriterReader_Bytes(t *testing.T) {
	w := NewWriter()
	w.WriteBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	w.WriteBytes(nil)

	r := NewReader(w.Bytes())
	b1, err := r.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b1)

	b2, err := r.ReadBytes()
	require.NoError(t, err)
	assert.Empty(t, b2)

	assert.True(t, r.Done())
}

// =============================================================================
// TRUNCATION TESTS
// =============================================================================

func TestReader_Truncated(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		read func(r *Reader) error
	}{
		{"uint8 empty", nil, func(r *Reader) error { _, err := r.ReadUint8(); return err }},
		{"uint32 short", []byte{0, 0}, func(r *Reader) error { _, err := r.ReadUint32(); return err }},
		{"uint64 short", []byte{0, 0, 0, 0}, func(r *Reader) error { _, err := r.ReadUint64(); return err }},
		{"bytes declared-longer-than-buffer", []byte{0, 0, 0, 10, 1, 2}, func(r *Reader) error { _, err := r.ReadBytes(); return err }},
		{"string declared-longer-than-buffer", []byte{0, 0, 0, 5, 'h', 'i'}, func(r *Reader) error { _, err := r.ReadString(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewReader(tt.buf))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTruncated)
		})
	}
}

func TestReader_Done(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	assert.False(t, r.Done())
	_, err := r.ReadUint8()
	require.NoError(t, err)
	assert.False(t, r.Done())
	assert.Equal(t, 2, r.Remaining())
}
