package route

// Routing error codes.
const (
	ErrCodeMissingField         = "missing_field"
	ErrCodeHandlerGroupNotFound = "handler_group_not_found"
	ErrCodeActionNotCallable    = "action_not_callable"
)

// Error reports a dispatch failure: an envelope that names no handler group,
// or names a group with no such action. The router never recovers from these
// itself; the hub decides what to do with the message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a routing error with a code and human-readable message.
func NewError(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}
