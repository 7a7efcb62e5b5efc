package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CapturesLevelAndKeyValues(t *testing.T) {
	r := NewRecorder()
	r.Info("launched", "target_id", 1)
	r.Error("engine failure", "kind", "ENGINE_FAILURE")

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "info", entries[0].Level)
	assert.Equal(t, "launched", entries[0].Msg)
	assert.Equal(t, []any{"target_id", 1}, entries[0].Kv)
	assert.Equal(t, "error", entries[1].Level)
}

func TestRecorder_BindPrependsBoundKeysToEveryEntry(t *testing.T) {
	r := NewRecorder()
	bound := r.Bind("conn", "c1")
	bound.Debug("frame read", "bytes", 12)

	entries := r.Entries()
	require.Empty(t, entries, "entries belong to the bound child, not the parent recorder")

	child := bound.(*Recorder)
	childEntries := child.Entries()
	require.Len(t, childEntries, 1)
	assert.Equal(t, []any{"conn", "c1", "bytes", 12}, childEntries[0].Kv)
}

func TestRecorder_BindIsAdditive(t *testing.T) {
	r := NewRecorder()
	first := r.Bind("a", 1)
	second := first.Bind("b", 2)
	second.Warn("nested")

	child := second.(*Recorder)
	entries := child.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, []any{"a", 1, "b", 2}, entries[0].Kv)
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := New("not-a-real-level")
	require.NotNil(t, log)
	// Exercise every method; none should panic even against an invalid
	// level string (falls back to zap's InfoLevel default).
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")
}

func TestNoop_NeverPanics(t *testing.T) {
	log := Noop()
	log.Bind("k", "v").Info("hello")
}
