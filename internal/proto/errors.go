package proto

// Protocol error codes.
const (
	ErrCodeBadFrame     = "bad_frame"
	ErrCodeMissingField = "missing_field"
)

// ProtocolError reports a frame that cannot become a routable envelope.
// The offending message is discarded; the connection stays open.
type ProtocolError struct {
	Code    string
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Message
}
