package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// ERROR CONSTRUCTOR TESTS
// =============================================================================

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		wantKind ErrorKind
	}{
		{"unknown", Unknown("unrecognized variant"), ErrorKindUnknownRequest},
		{"invalid argument", InvalidArgument("bad arg"), ErrorKindInvalidArgument},
		{"no target", NoTarget(), ErrorKindNoTarget},
		{"no process", NoProcess(), ErrorKindNoProcess},
		{"not stopped", NotStopped(), ErrorKindNotStopped},
		{"already launched", AlreadyLaunched(), ErrorKindAlreadyLaunched},
		{"not found", NotFound("breakpoint", "3"), ErrorKindNotFound},
		{"stale handle", StaleHandle("frame"), ErrorKindStaleHandle},
		{"engine failure", EngineFailure("boom"), ErrorKindEngineFailure},
		{"invalid handle", InvalidHandle("value"), ErrorKindInvalidHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.err.Kind)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestError_NilReceiver(t *testing.T) {
	var err *Error
	assert.Equal(t, "", err.Error())
}

func TestNotFound_MessageIncludesResourceAndID(t *testing.T) {
	err := NotFound("breakpoint", "42")
	assert.Contains(t, err.Message, "breakpoint")
	assert.Contains(t, err.Message, "42")
}
