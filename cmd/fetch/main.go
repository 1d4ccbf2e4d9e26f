// Command fetch issues one GET or POST exchange and prints its Result as JSON.
//
//	fetch [GET] <url>
//	fetch POST <url> [body]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/netter/internal/config"
	"github.com/samvad-hq/netter/internal/logger"
	"github.com/samvad-hq/netter/pkg/httpclient"
	"github.com/samvad-hq/netter/pkg/netter"
)

func main() {
	code, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
	}
	os.Exit(code)
}

type request struct {
	method netter.Method
	url    string
	body   []byte
}

func parseArgs(args []string) (request, error) {
	switch len(args) {
	case 1:
		return request{method: netter.GET, url: args[0]}, nil
	case 2, 3:
		m, err := netter.ParseMethod(args[0])
		if err != nil {
			return request{}, err
		}
		req := request{method: m, url: args[1]}
		if len(args) == 3 {
			if m == netter.GET {
				return request{}, fmt.Errorf("GET requests cannot carry a body")
			}
			req.body = []byte(args[2])
		}
		return req, nil
	default:
		return request{}, fmt.Errorf("usage: fetch [GET|POST] <url> [body]")
	}
}

// run returns exit code 0 on a Success result and 1 otherwise.
func run(args []string, out io.Writer) (int, error) {
	req, err := parseArgs(args)
	if err != nil {
		return 2, err
	}

	cfg, err := config.Load()
	if err != nil {
		return 2, fmt.Errorf("load config: %w", err)
	}
	log := logger.InitTo(cfg, os.Stderr)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := httpclient.New(httpclient.NewRestyTransport(cfg.HTTPTimeout), log)
	done := make(chan netter.Result, 1)
	client.Fetch(ctx, req.method, req.url, req.body, func(res netter.Result) { done <- res })
	res := <-done

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return 2, fmt.Errorf("encode result: %w", err)
	}
	if !res.OK() {
		return 1, nil
	}
	return 0, nil
}
