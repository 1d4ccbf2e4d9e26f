package publishers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/netter/pkg/httpclient"
)

// Event attributes are mirrored as headers so sinks can route without
// decoding the payload.
const (
	headerTargetID = "X-Netter-Target-Id"
	headerOutcome  = "X-Netter-Outcome"
)

// httpPublisher posts events as JSON to a webhook-style sink.
type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	return &httpPublisher{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

// Publish sends evt as the request body. Configured headers are applied
// first; the event headers and Content-Type always win.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	attrs := evt.Attributes()
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader(headerTargetID, attrs["target_id"]).
		SetHeader(headerOutcome, attrs["outcome"]).
		SetHeader("Content-Type", "application/json").
		SetBody(evt).
		Execute(h.method, h.url)
	if err != nil {
		h.log.ErrorObj("http publisher send failed", "publisher_http_error", map[string]any{
			"publisher_id": h.id,
			"target_id":    evt.TargetID,
			"error":        err.Error(),
		})
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sink %s responded %d: %s", h.url, resp.StatusCode(), sinkErrorText(resp))
	}

	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"target_id":    evt.TargetID,
		"outcome":      evt.Outcome,
		"status":       resp.StatusCode(),
	})
	return nil
}

// sinkErrorText prefers the page title of HTML error bodies and falls back
// to the status text when the sink sent nothing useful.
func sinkErrorText(resp *resty.Response) string {
	if detail := httpclient.FailureDetail(resp.Body()); detail != "" {
		return detail
	}
	return strings.ToLower(http.StatusText(resp.StatusCode()))
}
