package client

import "fmt"

// UnsupportedActionError reports an inbound envelope that resolves to no
// local handler.
type UnsupportedActionError struct {
	Controller string
	Action     string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action %s/%s", e.Controller, e.Action)
}

// TransportError is a typed wrapper for connection failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
