package netter

import (
	"errors"
	"fmt"
)

// Kind classifies why an exchange failed.
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindMalformedResponse
	KindParse
	KindHTTP
	KindInvalidMethod
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport_error"
	case KindMalformedResponse:
		return "malformed_response"
	case KindParse:
		return "parse_error"
	case KindHTTP:
		return "http_error"
	case KindInvalidMethod:
		return "invalid_method"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in logs and events.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ErrInvalidMethod is returned by Build and ParseMethod for verbs other than GET and POST.
var ErrInvalidMethod = errors.New("invalid request method")

// Failure messages produced by Interpret.
const (
	MsgInvalidResponse = "invalid response"
	MsgNoData          = "no data returned"
	MsgParseFailed     = "Failed to retrieve JSON response"
)

// Error is the error form of a Failure result.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Is lets errors.Is match on ErrInvalidMethod for invalid-method failures.
func (e *Error) Is(target error) bool {
	return e != nil && e.Kind == KindInvalidMethod && target == ErrInvalidMethod
}
