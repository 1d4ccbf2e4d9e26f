package httpclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/netter/pkg/netter"
)

// Client runs exchanges asynchronously and delivers each interpreted Result
// to a caller-supplied callback exactly once.
type Client struct {
	transport Transport
	log       Logger
}

// New wires a Client over transport. A nil transport falls back to resty with
// no timeout; a nil logger discards output.
func New(transport Transport, log Logger) *Client {
	if transport == nil {
		transport = NewRestyTransport(0)
	}
	if log == nil {
		log = noopLogger{}
	}
	return &Client{transport: transport, log: log}
}

// Send starts the exchange in a new goroutine and returns its id without
// waiting. cb is invoked once, from that goroutine, with the Result.
func (c *Client) Send(ctx context.Context, desc netter.Descriptor, url string, cb netter.Callback) string {
	id := uuid.NewString()
	deliver := once(cb)

	if desc.IsZero() {
		go deliver(netter.FailureFromError(fmt.Errorf("%w: empty descriptor", netter.ErrInvalidMethod)))
		return id
	}
	if desc.Method() == netter.GET && len(desc.Body()) > 0 {
		go deliver(netter.FailureFromError(fmt.Errorf("%w: GET cannot carry a body", netter.ErrInvalidMethod)))
		return id
	}

	go func() {
		deliver(c.run(ctx, id, desc, url))
	}()
	return id
}

// Fetch builds a descriptor for method, attaches body (when non-nil) and
// sends it. An invalid method, or a GET with a body, is delivered as a
// failure like any other.
func (c *Client) Fetch(ctx context.Context, method netter.Method, url string, body []byte, cb netter.Callback) string {
	desc, err := netter.Build(method)
	if err != nil {
		id := uuid.NewString()
		c.log.WarnObj("request build failed", "exchange_error", map[string]any{
			"exchange_id": id,
			"method":      string(method),
			"error":       err.Error(),
		})
		go once(cb)(netter.FailureFromError(err))
		return id
	}
	if body != nil {
		desc = desc.WithBody(body)
	}
	return c.Send(ctx, desc, url, cb)
}

// Do sends desc and blocks until its Result is available.
func (c *Client) Do(ctx context.Context, desc netter.Descriptor, url string) netter.Result {
	ch := make(chan netter.Result, 1)
	c.Send(ctx, desc, url, func(res netter.Result) { ch <- res })
	return <-ch
}

func (c *Client) run(ctx context.Context, id string, desc netter.Descriptor, url string) (res netter.Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = netter.Failure(netter.KindTransport, fmt.Sprintf("transport panic: %v", r))
		}
		c.logResult(id, desc, url, start, res)
	}()

	c.log.DebugObj("exchange started", "exchange", map[string]any{
		"exchange_id": id,
		"method":      desc.Method().String(),
		"url":         url,
	})

	outcome := c.transport.Exchange(ctx, desc, url)
	res = netter.Interpret(outcome)
	if !res.OK() && res.Kind() == netter.KindHTTP {
		if detail := FailureDetail(outcome.Body); detail != "" {
			c.log.DebugObj("http error body", "exchange_detail", map[string]any{
				"exchange_id": id,
				"detail":      detail,
			})
		}
	}
	return res
}

func (c *Client) logResult(id string, desc netter.Descriptor, url string, start time.Time, res netter.Result) {
	fields := map[string]any{
		"exchange_id": id,
		"method":      desc.Method().String(),
		"url":         url,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	}
	if res.OK() {
		c.log.DebugObj("exchange succeeded", "exchange_result", fields)
		return
	}
	fields["kind"] = res.Kind().String()
	fields["error"] = res.Message()
	if res.StatusCode() != 0 {
		fields["status"] = res.StatusCode()
	}
	c.log.WarnObj("exchange failed", "exchange_result", fields)
}

// once guards cb so it can fire at most one time; a nil cb is a no-op.
func once(cb netter.Callback) netter.Callback {
	var o sync.Once
	return func(res netter.Result) {
		o.Do(func() {
			if cb != nil {
				cb(res)
			}
		})
	}
}
