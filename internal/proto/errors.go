package proto

// ErrKind enumerates the error taxonomy from spec §7. All of them
// surface to the client as an ERR response and leave the connection
// open, ErrKindProtocol included; the connection is closed only for a
// framer error (*ErrShortFrame), which is a separate type.
type ErrKind int

const (
	ErrKindBadArgument ErrKind = iota
	ErrKindNotFound
	ErrKindTypeMismatch
	ErrKindProtocol
	ErrKindInternal
)

// Error is the dispatch-layer error type: a taxonomy class plus a
// human-readable message that becomes the ERR response payload.
type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func BadArgument(msg string) *Error    { return NewError(ErrKindBadArgument, msg) }
func NotFound(msg string) *Error       { return NewError(ErrKindNotFound, msg) }
func TypeMismatch(msg string) *Error   { return NewError(ErrKindTypeMismatch, msg) }
func ProtocolError(msg string) *Error  { return NewError(ErrKindProtocol, msg) }
