package protocol

import "fmt"

// MessageKind tags which oneof (Request, Response, Event) a frame's
// payload carries (spec §4.2).
type MessageKind uint8

const (
	KindRequest MessageKind = iota + 1
	KindResponse
	KindEvent
)

// RequestEnvelope is the outer shape of every request frame: a
// correlation hash the adapter must echo verbatim, a variant tag, and
// the variant-specific payload bytes.
type RequestEnvelope struct {
	Hash    []byte
	Variant RequestVariant
	Payload []byte
}

// EncodeRequestEnvelope serializes a full request frame payload
// (kind byte + hash + variant + inner payload).
func EncodeRequestEnvelope(env RequestEnvelope) []byte {
	w := NewWriter()
	w.WriteUint8(uint8(KindRequest))
	w.WriteBytes(env.Hash)
	w.WriteUint32(uint32(env.Variant))
	w.WriteBytes(env.Payload)
	return w.Bytes()
}

// DecodeRequestEnvelope parses a frame payload known to carry a
// Request. Returns ErrTruncated on any short read; the dispatcher's read
// loop logs such a frame, drops it and keeps the connection open.
func DecodeRequestEnvelope(payload []byte) (RequestEnvelope, error) {
	r := NewReader(payload)
	kind, err := r.ReadUint8()
	if err != nil {
		return RequestEnvelope{}, err
	}
	if MessageKind(kind) != KindRequest {
		return RequestEnvelope{}, fmt.Errorf("protocol: expected request frame, got kind %d", kind)
	}
	hash, err := r.ReadBytes()
	if err != nil {
		return RequestEnvelope{}, err
	}
	variant, err := r.ReadUint32()
	if err != nil {
		return RequestEnvelope{}, err
	}
	inner, err := r.ReadBytes()
	if err != nil {
		return RequestEnvelope{}, err
	}
	return RequestEnvelope{Hash: hash, Variant: RequestVariant(variant), Payload: inner}, nil
}

// ResponseEnvelope is the outer shape of every response frame. Exactly
// one is produced per request, always echoing that request's hash
// (spec §4.8). ErrorKind is ErrorKindNone on success.
type ResponseEnvelope struct {
	Hash         []byte
	Success      bool
	ErrorKind    ErrorKind
	ErrorMessage string
	Payload      []byte
}

func EncodeResponseEnvelope(env ResponseEnvelope) []byte {
	w := NewWriter()
	w.WriteUint8(uint8(KindResponse))
	w.WriteBytes(env.Hash)
	w.WriteBool(env.Success)
	w.WriteString(string(env.ErrorKind))
	w.WriteString(env.ErrorMessage)
	w.WriteBytes(env.Payload)
	return w.Bytes()
}

func DecodeResponseEnvelope(payload []byte) (ResponseEnvelope, error) {
	r := NewReader(payload)
	kind, err := r.ReadUint8()
	if err != nil {
		return ResponseEnvelope{}, err
	}
	if MessageKind(kind) != KindResponse {
		return ResponseEnvelope{}, fmt.Errorf("protocol: expected response frame, got kind %d", kind)
	}
	hash, err := r.ReadBytes()
	if err != nil {
		return ResponseEnvelope{}, err
	}
	success, err := r.ReadBool()
	if err != nil {
		return ResponseEnvelope{}, err
	}
	errKind, err := r.ReadString()
	if err != nil {
		return ResponseEnvelope{}, err
	}
	errMsg, err := r.ReadString()
	if err != nil {
		return ResponseEnvelope{}, err
	}
	inner, err := r.ReadBytes()
	if err != nil {
		return ResponseEnvelope{}, err
	}
	return ResponseEnvelope{
		Hash: hash, Success: success,
		ErrorKind: ErrorKind(errKind), ErrorMessage: errMsg,
		Payload: inner,
	}, nil
}

// SuccessResponse builds a successful ResponseEnvelope echoing hash.
func SuccessResponse(hash []byte, payload []byte) ResponseEnvelope {
	return ResponseEnvelope{Hash: hash, Success: true, Payload: payload}
}

// ErrorResponseEnvelope builds a failed ResponseEnvelope echoing hash.
func ErrorResponseEnvelope(hash []byte, err *Error) ResponseEnvelope {
	return ResponseEnvelope{
		Hash: hash, Success: false,
		ErrorKind: err.Kind, ErrorMessage: err.Message,
	}
}

// EventEnvelope is the outer shape of every unsolicited event frame.
// Events carry no correlation hash (spec §6.2).
type EventEnvelope struct {
	Variant EventVariant
	Payload []byte
}

func EncodeEventEnvelope(env EventEnvelope) []byte {
	w := NewWriter()
	w.WriteUint8(uint8(KindEvent))
	w.WriteUint32(uint32(env.Variant))
	w.WriteBytes(env.Payload)
	return w.Bytes()
}

func DecodeEventEnvelope(payload []byte) (EventEnvelope, error) {
	r := NewReader(payload)
	kind, err := r.ReadUint8()
	if err != nil {
		return EventEnvelope{}, err
	}
	if MessageKind(kind) != KindEvent {
		return EventEnvelope{}, fmt.Errorf("protocol: expected event frame, got kind %d", kind)
	}
	variant, err := r.ReadUint32()
	if err != nil {
		return EventEnvelope{}, err
	}
	inner, err := r.ReadBytes()
	if err != nil {
		return EventEnvelope{}, err
	}
	return EventEnvelope{Variant: EventVariant(variant), Payload: inner}, nil
}

// PeekKind reads only the leading kind byte, without consuming the
// rest, so a reader can tell a Request frame apart from other message
// kinds. The dispatcher's read loop does not call it: it relies on
// DecodeRequestEnvelope's own kind check.
func PeekKind(payload []byte) (MessageKind, error) {
	if len(payload) == 0 {
		return 0, ErrTruncated
	}
	return MessageKind(payload[0]), nil
}
