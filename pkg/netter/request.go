package netter

import (
	"fmt"
	"strings"
)

// Method selects the HTTP verb a descriptor is built for.
type Method string

const (
	GET  Method = "GET"
	POST Method = "POST"
)

const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"

	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"
)

// ParseMethod maps a case-insensitive verb onto a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
	return m, nil
}

// Valid reports whether m is GET or POST.
func (m Method) Valid() bool {
	return m == GET || m == POST
}

func (m Method) String() string { return string(m) }

// Descriptor is the method, headers and optional body prepared before an
// exchange starts. It is never mutated after Build.
type Descriptor struct {
	method  Method
	headers map[string]string
	body    []byte
}

// Build returns a descriptor with the headers required for method.
func Build(method Method) (Descriptor, error) {
	headers := map[string]string{HeaderAccept: ContentTypeJSON}

	switch method {
	case GET:
		headers[HeaderContentType] = ContentTypeForm
	case POST:
		headers[HeaderContentType] = ContentTypeMultipart
	default:
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidMethod, string(method))
	}

	return Descriptor{method: method, headers: headers}, nil
}

// Method returns the HTTP verb.
func (d Descriptor) Method() Method { return d.method }

// Headers returns a copy of the request headers.
func (d Descriptor) Headers() map[string]string {
	out := make(map[string]string, len(d.headers))
	for k, v := range d.headers {
		out[k] = v
	}
	return out
}

// Header returns a single header value.
func (d Descriptor) Header(name string) string { return d.headers[name] }

// Body returns a copy of the attached body, or nil.
func (d Descriptor) Body() []byte {
	if d.body == nil {
		return nil
	}
	return append([]byte(nil), d.body...)
}

// WithBody returns a copy of d carrying body. The receiver is left untouched.
func (d Descriptor) WithBody(body []byte) Descriptor {
	out := Descriptor{method: d.method, headers: d.Headers()}
	if body != nil {
		out.body = append([]byte(nil), body...)
	}
	return out
}

// IsZero reports whether d was not produced by Build.
func (d Descriptor) IsZero() bool { return d.method == "" }
