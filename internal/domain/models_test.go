package domain

import (
	"testing"
	"time"

	"github.com/samvad-hq/netter/pkg/netter"
)

func TestSnapshotDigestIgnoresExchangeMetadata(t *testing.T) {
	res := netter.Interpret(netter.ResponseOutcome(200, []byte(`{"b":2,"a":1}`)))
	a := Snapshot{TargetID: "t", ExchangeID: "x1", Result: res, FetchedAt: time.Now()}
	b := Snapshot{TargetID: "t", ExchangeID: "x2", Result: res, FetchedAt: time.Now().Add(time.Hour)}

	da, err := a.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	db, _ := b.Digest()
	if da != db {
		t.Fatalf("expected equal digests, got %s vs %s", da, db)
	}

	c := Snapshot{TargetID: "t", Result: netter.Interpret(netter.ResponseOutcome(200, []byte(`{"a":2}`)))}
	dc, _ := c.Digest()
	if dc == da {
		t.Fatalf("expected different digest for changed value")
	}
}
