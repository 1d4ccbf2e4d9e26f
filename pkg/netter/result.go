package netter

import (
	"encoding/json"
	"errors"
)

// Result is the final outcome of one exchange: either Success carrying the
// parsed JSON value (which may be nil for a JSON null) or Failure carrying a
// message.
type Result struct {
	ok         bool
	value      any
	message    string
	kind       Kind
	statusCode int
}

// Callback receives the Result of an exchange exactly once.
type Callback func(Result)

// Success builds a success result.
func Success(value any) Result {
	return Result{ok: true, value: value, statusCode: StatusSuccess}
}

// Failure builds a failure result of the given kind.
func Failure(kind Kind, message string) Result {
	return Result{kind: kind, message: message}
}

// FailureFromError folds err into a failure result, keeping its kind when err
// is an *Error.
func FailureFromError(err error) Result {
	if err == nil {
		return Failure(KindTransport, "")
	}
	var nerr *Error
	if errors.As(err, &nerr) {
		return Result{kind: nerr.Kind, message: nerr.Message, statusCode: nerr.StatusCode}
	}
	if errors.Is(err, ErrInvalidMethod) {
		return Failure(KindInvalidMethod, err.Error())
	}
	return Failure(KindTransport, err.Error())
}

func httpFailure(code int, message string) Result {
	return Result{kind: KindHTTP, message: message, statusCode: code}
}

// OK reports whether r is the Success variant.
func (r Result) OK() bool { return r.ok }

// Value returns the parsed JSON value of a success, or nil.
func (r Result) Value() any {
	if !r.ok {
		return nil
	}
	return r.value
}

// Message returns the failure message, or "" for a success.
func (r Result) Message() string {
	if r.ok {
		return ""
	}
	return r.message
}

// Kind returns KindNone for a success.
func (r Result) Kind() Kind {
	if r.ok {
		return KindNone
	}
	return r.kind
}

// StatusCode is the HTTP status that produced r, when one was received.
func (r Result) StatusCode() int { return r.statusCode }

// Err returns nil for a success and an *Error otherwise.
func (r Result) Err() error {
	if r.ok {
		return nil
	}
	return &Error{Kind: r.kind, Message: r.message, StatusCode: r.statusCode}
}

// IsNotFound reports an HTTP 404 failure.
func (r Result) IsNotFound() bool {
	return !r.ok && r.kind == KindHTTP && r.statusCode == StatusNotFound
}

// IsServerError reports an HTTP 5xx failure.
func (r Result) IsServerError() bool {
	return !r.ok && r.kind == KindHTTP && r.statusCode >= StatusInternalServerError && r.statusCode < 600
}

// Object returns the value as a JSON object.
func (r Result) Object() (map[string]any, bool) {
	m, ok := r.Value().(map[string]any)
	return m, ok
}

// Array returns the value as a JSON array.
func (r Result) Array() ([]any, bool) {
	a, ok := r.Value().([]any)
	return a, ok
}

// StringValue returns the value as a JSON string.
func (r Result) StringValue() (string, bool) {
	s, ok := r.Value().(string)
	return s, ok
}

// Number returns the value as a JSON number.
func (r Result) Number() (float64, bool) {
	n, ok := r.Value().(float64)
	return n, ok
}

// Bool returns the value as a JSON boolean.
func (r Result) Bool() (bool, bool) {
	b, ok := r.Value().(bool)
	return b, ok
}

// IsNull reports a success whose value is JSON null.
func (r Result) IsNull() bool { return r.ok && r.value == nil }

// Decode re-encodes a success value into out.
func (r Result) Decode(out any) error {
	if !r.ok {
		return r.Err()
	}
	raw, err := json.Marshal(r.value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

type successJSON struct {
	Success    bool `json:"success"`
	Value      any  `json:"value"`
	StatusCode int  `json:"status_code,omitempty"`
}

type failureJSON struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Kind       Kind   `json:"kind"`
	StatusCode int    `json:"status_code,omitempty"`
}

// MarshalJSON renders the result for events and CLI output. A success always
// carries "value", so JSON null stays distinguishable.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(successJSON{Success: true, Value: r.value, StatusCode: r.statusCode})
	}
	return json.Marshal(failureJSON{Message: r.message, Kind: r.kind, StatusCode: r.statusCode})
}
