package netter

import (
	"encoding/json"
	"strconv"
	"unicode/utf8"
)

// Status codes the interpreter knows by name. Only StatusSuccess yields a
// Success; the others are used to classify failures.
const (
	StatusSuccess             = 200
	StatusNotFound            = 404
	StatusInternalServerError = 500
)

// Outcome is the raw signal a transport reports when an exchange finishes.
// A nil StatusCode or Body means the transport did not provide one; an empty
// TransportError means no network-level failure occurred.
type Outcome struct {
	StatusCode     *int
	Body           []byte
	TransportError string
}

// ErrorOutcome describes a network-level failure.
func ErrorOutcome(msg string) Outcome {
	return Outcome{TransportError: msg}
}

// ResponseOutcome describes a completed HTTP response.
func ResponseOutcome(status int, body []byte) Outcome {
	if body == nil {
		body = []byte{}
	}
	return Outcome{StatusCode: &status, Body: body}
}

// Interpret turns the raw outcome of one exchange into a Result. It never
// blocks and has no side effects.
func Interpret(o Outcome) Result {
	if o.TransportError != "" {
		return Failure(KindTransport, o.TransportError)
	}
	if o.StatusCode == nil {
		return Failure(KindMalformedResponse, MsgInvalidResponse)
	}
	if o.Body == nil {
		return Result{kind: KindMalformedResponse, message: MsgNoData, statusCode: *o.StatusCode}
	}

	code := *o.StatusCode
	if code != StatusSuccess {
		return httpFailure(code, "HTTP error "+strconv.Itoa(code))
	}

	if !utf8.Valid(o.Body) {
		return Result{kind: KindParse, message: MsgParseFailed, statusCode: code}
	}
	var value any
	if err := json.Unmarshal(o.Body, &value); err != nil {
		return Result{kind: KindParse, message: MsgParseFailed, statusCode: code}
	}
	return Success(value)
}
