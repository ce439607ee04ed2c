package proto

import (
	"encoding/json"
	"fmt"
)

// Wire namespaces. Commands the server accepts arrive addressed to
// ControllerServer; everything the server emits is addressed to
// ControllerClient.
const (
	ControllerServer = "server"
	ControllerClient = "client"
)

// Actions accepted by the server.
const (
	ActionHello          = "hello"
	ActionSetName        = "set-name"
	ActionStrokeLine     = "stroke-line"
	ActionRequestRestore = "request-restore"
)

// Actions emitted to clients.
const (
	ActionWelcome          = "welcome"
	ActionUserConnecting   = "user-connecting"
	ActionUserConnected    = "user-connected"
	ActionNameChanged      = "name-changed"
	ActionRestore          = "restore"
	ActionUserDisconnected = "user-disconnected"
	ActionError            = "error"
)

// Envelope is the unit of communication on the wire: one JSON document per
// frame with exactly these three fields. Treat an envelope as immutable once
// constructed; handlers read parameters, they never write them.
type Envelope struct {
	Controller string         `json:"controller"`
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

// New builds an envelope. A nil parameter map becomes an empty one so the
// wire document always carries all three fields.
func New(controller, action string, params map[string]any) *Envelope {
	if params == nil {
		params = map[string]any{}
	}
	return &Envelope{Controller: controller, Action: action, Parameters: params}
}

// Decode parses a single wire frame. A frame without a controller or action
// is rejected with a *ProtocolError and never reaches the router.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ProtocolError{Code: ErrCodeBadFrame, Message: fmt.Sprintf("malformed frame: %v", err)}
	}
	if env.Controller == "" {
		return nil, &ProtocolError{Code: ErrCodeMissingField, Message: "frame has no controller"}
	}
	if env.Action == "" {
		return nil, &ProtocolError{Code: ErrCodeMissingField, Message: "frame has no action"}
	}
	if env.Parameters == nil {
		env.Parameters = map[string]any{}
	}
	return &env, nil
}

// Encode serializes the envelope to its wire form.
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Param returns the named parameter, or def when absent. It never fails.
func (e *Envelope) Param(name string, def any) any {
	if v, ok := e.Parameters[name]; ok {
		return v
	}
	return def
}

// String returns the named parameter as a string, or def when absent or not
// a string.
func (e *Envelope) String(name, def string) string {
	if s, ok := e.Parameters[name].(string); ok {
		return s
	}
	return def
}

// Float64 returns the named parameter as a float64. JSON numbers decode to
// float64, so this covers every numeric parameter on the wire.
func (e *Envelope) Float64(name string, def float64) float64 {
	switch v := e.Parameters[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return def
}

// Int64 returns the named parameter as an int64, truncating a float value.
func (e *Envelope) Int64(name string, def int64) int64 {
	switch v := e.Parameters[name].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return def
}
