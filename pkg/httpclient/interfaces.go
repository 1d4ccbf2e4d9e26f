package httpclient

import (
	"context"

	"github.com/samvad-hq/netter/pkg/netter"
)

// Transport executes one exchange described by desc against url and reports
// the raw outcome. Implementations must not panic on network failure; they
// report it through Outcome.TransportError instead.
type Transport interface {
	Exchange(ctx context.Context, desc netter.Descriptor, url string) netter.Outcome
}

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}
