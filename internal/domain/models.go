package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic change detection
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/samvad-hq/netter/pkg/netter"
)

// Snapshot is the interpreted result of polling one target once.
type Snapshot struct {
	TargetID   string        `json:"target_id"`
	TargetName string        `json:"target_name"`
	URL        string        `json:"url"`
	Method     string        `json:"method"`
	ExchangeID string        `json:"exchange_id"`
	Result     netter.Result `json:"result"`
	FetchedAt  time.Time     `json:"fetched_at"`
}

// Digest hashes the result so repeated identical polls can be skipped.
// Exchange ids and timestamps are excluded.
func (s Snapshot) Digest() (string, error) {
	raw, err := json.Marshal(s.Result)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}
