package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// REQUEST ENVELOPE TESTS
// =============================================================================

func TestRequestEnvelope_RoundTrip(t *testing.T) {
	req := CreateTargetRequest{ExecutablePath: "/bin/app", Architecture: "arm64"}
	env := RequestEnvelope{
		Hash:    []byte{1, 2, 3, 4},
		Variant: ReqCreateTarget,
		Payload: req.Encode(),
	}

	encoded := EncodeRequestEnvelope(env)
	got, err := DecodeRequestEnvelope(encoded)
	require.NoError(t, err)

	assert.Equal(t, env.Hash, got.Hash)
	assert.Equal(t, env.Variant, got.Variant)

	decodedReq, err := DecodeCreateTargetRequest(got.Payload)
	require.NoError(t, err)
	assert.Equal(t, req, decodedReq)
}

func TestRequestEnvelope_RejectsWrongKind(t *testing.T) {
	resp := SuccessResponse([]byte{9}, nil)
	encoded := EncodeResponseEnvelope(resp)

	_, err := DecodeRequestEnvelope(encoded)
	require.Error(t, err)
}

// =============================================================================
// RESPONSE ENVELOPE TESTS
// =============================================================================

func TestResponseEnvelope_Success(t *testing.T) {
	hash := []byte{0xaa, 0xbb}
	payload := LaunchResponse{ProcessID: 42}.Encode()
	env := SuccessResponse(hash, payload)

	encoded := EncodeResponseEnvelope(env)
	got, err := DecodeResponseEnvelope(encoded)
	require.NoError(t, err)

	assert.Equal(t, hash, got.Hash)
	assert.True(t, got.Success)
	assert.Equal(t, ErrorKindNone, got.ErrorKind)

	decoded, err := DecodeLaunchResponse(got.Payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), decoded.ProcessID)
}

func TestResponseEnvelope_Error(t *testing.T) {
	hash := []byte{0x01}
	env := ErrorResponseEnvelope(hash, NotFound("breakpoint", "7"))

	encoded := EncodeResponseEnvelope(env)
	got, err := DecodeResponseEnvelope(encoded)
	require.NoError(t, err)

	assert.Equal(t, hash, got.Hash)
	assert.False(t, got.Success)
	assert.Equal(t, ErrorKindNotFound, got.ErrorKind)
	assert.Contains(t, got.ErrorMessage, "breakpoint")
}

func TestResponseEnvelope_EchoesRequestHash(t *testing.T) {
	reqHash := []byte{1, 2, 3}
	reqEnv := RequestEnvelope{Hash: reqHash, Variant: ReqContinue, Payload: nil}
	decodedReq, err := DecodeRequestEnvelope(EncodeRequestEnvelope(reqEnv))
	require.NoError(t, err)

	respEnv := SuccessResponse(decodedReq.Hash, nil)
	decodedResp, err := DecodeResponseEnvelope(EncodeResponseEnvelope(respEnv))
	require.NoError(t, err)

	assert.Equal(t, reqHash, decodedResp.Hash)
}

// =============================================================================
// EVENT ENVELOPE TESTS
// =============================================================================

func TestEventEnvelope_RoundTrip(t *testing.T) {
	evt := StoppedEvent{ThreadID: 3, StopGeneration: 5, Info: StopInfo{Reason: StopReasonBreakpoint, BPID: 1}}
	env := EventEnvelope{Variant: EvtStopped, Payload: evt.Encode()}

	encoded := EncodeEventEnvelope(env)
	got, err := DecodeEventEnvelope(encoded)
	require.NoError(t, err)
	assert.Equal(t, EvtStopped, got.Variant)

	decoded, err := DecodeStoppedEvent(got.Payload)
	require.NoError(t, err)
	assert.Equal(t, evt, decoded)
}

// =============================================================================
// PEEK KIND
// =============================================================================

func TestPeekKind(t *testing.T) {
	reqBytes := EncodeRequestEnvelope(RequestEnvelope{Variant: ReqKill})
	kind, err := PeekKind(reqBytes)
	require.NoError(t, err)
	assert.Equal(t, KindRequest, kind)

	respBytes := EncodeResponseEnvelope(SuccessResponse(nil, nil))
	kind, err = PeekKind(respBytes)
	require.NoError(t, err)
	assert.Equal(t, KindResponse, kind)

	_, err = PeekKind(nil)
	assert.ErrorIs(t, err, ErrTruncated)
}
