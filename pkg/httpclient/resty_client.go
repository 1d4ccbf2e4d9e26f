package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/netter/pkg/netter"
)

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a RestyTransport with the specified timeout. A
// non-positive timeout leaves the resty default (none) in place.
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	return &RestyTransport{client: newRestyBaseClient(timeout)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Exchange executes desc against url. Network failures are reported as a
// transport error; any received response is reported with its status and body.
func (r *RestyTransport) Exchange(ctx context.Context, desc netter.Descriptor, url string) netter.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	req := r.client.R().
		SetContext(ctx).
		SetHeaders(desc.Headers())
	if body := desc.Body(); body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(desc.Method().String(), url)
	if err != nil {
		return netter.ErrorOutcome(err.Error())
	}
	if resp == nil || resp.RawResponse == nil {
		return netter.Outcome{}
	}
	return netter.ResponseOutcome(resp.StatusCode(), resp.Body())
}
