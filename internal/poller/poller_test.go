package poller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/netter/pkg/netter"
	"github.com/samvad-hq/netter/pkg/publishers"
	"github.com/samvad-hq/netter/pkg/targets"
)

// fakeSender answers each url with a preset outcome on a new goroutine.
type fakeSender struct {
	mu       sync.Mutex
	outcomes map[string]netter.Outcome
	methods  map[string]netter.Method
}

func (f *fakeSender) Send(_ context.Context, desc netter.Descriptor, url string, cb netter.Callback) string {
	f.mu.Lock()
	if f.methods == nil {
		f.methods = make(map[string]netter.Method)
	}
	f.methods[url] = desc.Method()
	o := f.outcomes[url]
	f.mu.Unlock()

	go cb(netter.Interpret(o))
	return "ex-" + url
}

// fakePublisher records published events and can inject errors.
type fakePublisher struct {
	mu       sync.Mutex
	events   []publishers.Event
	errOnID  string
	partialN int
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if evt.TargetID == f.errOnID {
		return f.partialN, errors.New("boom")
	}
	return 1, nil
}

// fakeStore tracks digests in memory.
type fakeStore struct {
	mu      sync.Mutex
	digests map[string]string
	failID  string
}

func (f *fakeStore) Changed(target, digest string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if target == f.failID {
		return false, errors.New("lookup failed")
	}
	return f.digests[target] != digest, nil
}

func (f *fakeStore) Record(target, digest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.digests == nil {
		f.digests = make(map[string]string)
	}
	f.digests[target] = digest
	return nil
}

func ok(body string) netter.Outcome { return netter.ResponseOutcome(200, []byte(body)) }

func testTargets() []targets.Target {
	return []targets.Target{
		{ID: "a", URL: "http://a", Method: "GET", RequestDelayMs: 1},
		{ID: "b", URL: "http://b", Method: "POST", Body: "x=1", RequestDelayMs: 1},
	}
}

func TestRunPublishesEveryResultOnFirstPass(t *testing.T) {
	sender := &fakeSender{outcomes: map[string]netter.Outcome{
		"http://a": ok(`{"v":1}`),
		"http://b": netter.ErrorOutcome("timed out"),
	}}
	pub := &fakePublisher{}
	svc := NewService(sender, pub, nil, &fakeStore{})

	if err := svc.Run(context.Background(), testTargets()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.events))
	}

	byID := map[string]publishers.Event{}
	for _, e := range pub.events {
		byID[e.TargetID] = e
	}
	if byID["a"].Outcome != "success" || byID["a"].Snapshot.ExchangeID != "ex-http://a" {
		t.Fatalf("unexpected event for a: %+v", byID["a"])
	}
	if byID["b"].Outcome != "transport_error" || byID["b"].Snapshot.Result.Message() != "timed out" {
		t.Fatalf("unexpected event for b: %+v", byID["b"])
	}
	if sender.methods["http://b"] != netter.POST {
		t.Fatalf("expected POST for b, got %s", sender.methods["http://b"])
	}
}

func TestRunSkipsUnchangedResults(t *testing.T) {
	sender := &fakeSender{outcomes: map[string]netter.Outcome{
		"http://a": ok(`{"v":1}`),
		"http://b": ok(`[1]`),
	}}
	pub := &fakePublisher{}
	store := &fakeStore{}
	svc := NewService(sender, pub, nil, store)

	if err := svc.Run(context.Background(), testTargets()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	sender.mu.Lock()
	sender.outcomes["http://b"] = ok(`[2]`)
	sender.mu.Unlock()

	if err := svc.Run(context.Background(), testTargets()); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(pub.events) != 3 {
		t.Fatalf("expected 3 events across passes, got %d", len(pub.events))
	}
	if last := pub.events[2]; last.TargetID != "b" {
		t.Fatalf("expected only b republished, got %s", last.TargetID)
	}
}

func TestRunAggregatesPublishErrorsAndRetries(t *testing.T) {
	sender := &fakeSender{outcomes: map[string]netter.Outcome{
		"http://a": ok(`1`),
		"http://b": ok(`2`),
	}}
	pub := &fakePublisher{errOnID: "b"}
	store := &fakeStore{}
	svc := NewService(sender, pub, nil, store)

	err := svc.Run(context.Background(), testTargets())
	if err == nil || !strings.Contains(err.Error(), "target b") {
		t.Fatalf("expected error mentioning target b, got %v", err)
	}
	if _, recorded := store.digests["b"]; recorded {
		t.Fatalf("failed publish must not be recorded")
	}
	if _, recorded := store.digests["a"]; !recorded {
		t.Fatalf("successful publish should be recorded")
	}
}

func TestRunPartialPublishIsRecorded(t *testing.T) {
	sender := &fakeSender{outcomes: map[string]netter.Outcome{"http://a": ok(`1`)}}
	pub := &fakePublisher{errOnID: "a", partialN: 1}
	store := &fakeStore{}

	svc := NewService(sender, pub, nil, store)
	if err := svc.Run(context.Background(), testTargets()[:1]); err != nil {
		t.Fatalf("partial publish should not fail the pass: %v", err)
	}
	if _, recorded := store.digests["a"]; !recorded {
		t.Fatalf("partial publish should be recorded")
	}
}

func TestRunPublishesWhenStoreLookupFails(t *testing.T) {
	sender := &fakeSender{outcomes: map[string]netter.Outcome{"http://a": ok(`1`)}}
	pub := &fakePublisher{}
	svc := NewService(sender, pub, nil, &fakeStore{failID: "a"})

	if err := svc.Run(context.Background(), testTargets()[:1]); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected publish despite lookup failure")
	}
}

func TestRunInvalidTargetMethod(t *testing.T) {
	svc := NewService(&fakeSender{}, &fakePublisher{}, nil, nil)
	err := svc.Run(context.Background(), []targets.Target{{ID: "x", URL: "http://x", Method: "PUT"}})
	if !errors.Is(err, netter.ErrInvalidMethod) {
		t.Fatalf("expected invalid method error, got %v", err)
	}
}

func TestRunCancelledContextStartsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := &fakePublisher{}
	svc := NewService(&fakeSender{}, pub, nil, nil)
	if err := svc.Run(ctx, testTargets()); err != nil {
		t.Fatalf("expected no errors on cancelled context, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events")
	}
}

func TestRunRejectsEmptyTargets(t *testing.T) {
	svc := NewService(&fakeSender{}, nil, nil, nil)
	if err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error when targets list empty")
	}
}
