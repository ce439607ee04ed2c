package core

// Session error codes carried back to the offending client.
const (
	ErrCodeEmptyName = "empty_name"
)

// SessionError is a validation failure inside an action handler. It
// propagates out of the router to the hub, which reports it to the sender
// and drops the message; the connection stays open.
type SessionError struct {
	Code    string
	Message string
}

func (e *SessionError) Error() string {
	return e.Message
}

func sessionError(code, msg string) *SessionError {
	return &SessionError{Code: code, Message: msg}
}
