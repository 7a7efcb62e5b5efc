package protocol

// ErrorKind enumerates the structured error taxonomy of the protocol
// contract (spec §7). Responses carry Success=false plus one of these.
type ErrorKind string

const (
	ErrorKindNone            ErrorKind = ""
	ErrorKindUnknownRequest  ErrorKind = "UNKNOWN_REQUEST"
	ErrorKindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	ErrorKindNoTarget        ErrorKind = "NO_TARGET"
	ErrorKindNoProcess       ErrorKind = "NO_PROCESS"
	ErrorKindNotStopped      ErrorKind = "NOT_STOPPED"
	ErrorKindAlreadyLaunched ErrorKind = "ALREADY_LAUNCHED"
	ErrorKindNotFound        ErrorKind = "NOT_FOUND"
	ErrorKindStaleHandle     ErrorKind = "STALE_HANDLE"
	ErrorKindEngineFailure   ErrorKind = "ENGINE_FAILURE"
	ErrorKindInvalidHandle   ErrorKind = "INVALID_HANDLE"
)

// Error is the structured error carried in a failed Response. It never
// propagates past a handler boundary as a Go error value embedded in a
// response — the dispatcher converts it at the edge.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.Kind) + ": " + e.Message
}

// NewError builds a structured Error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Unknown(message string) *Error        { return NewError(ErrorKindUnknownRequest, message) }
func InvalidArgument(message string) *Error { return NewError(ErrorKindInvalidArgument, message) }
func NoTarget() *Error                     { return NewError(ErrorKindNoTarget, "no target created") }
func NoProcess() *Error                    { return NewError(ErrorKindNoProcess, "no process launched or attached") }
func NotStopped() *Error                   { return NewError(ErrorKindNotStopped, "process is running") }
func AlreadyLaunched() *Error              { return NewError(ErrorKindAlreadyLaunched, "process already launched") }
func NotFound(resource, id string) *Error {
	return NewError(ErrorKindNotFound, resource+" not found: "+id)
}
func StaleHandle(kind string) *Error {
	return NewError(ErrorKindStaleHandle, kind+" id is from a prior stop-generation")
}
func EngineFailure(detail string) *Error { return NewError(ErrorKindEngineFailure, detail) }
func InvalidHandle(kind string) *Error   { return NewError(ErrorKindInvalidHandle, "invalid "+kind+" handle") }
