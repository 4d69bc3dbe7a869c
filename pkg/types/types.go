// Package types holds result types shared between the spam engine and its
// consumers.
package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Result holds the summary of one spam run.
type Result struct {
	// Summary
	Sent   uint64 `json:"sent"`
	Failed uint64 `json:"failed"`
	Built  uint64 `json:"built"` // includes dry-run cycles

	// Per-strategy send counts, keyed by strategy name
	PerStrategy map[string]uint64 `json:"per_strategy,omitempty"`

	// Timing
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	// Effective send rate over the whole run
	AverageTPS float64 `json:"average_tps"`

	// Hashes of sent transactions, capped by the caller
	TxHashes []common.Hash `json:"tx_hashes,omitempty"`
}

// Finalize computes the derived fields once a run ends.
func (r *Result) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	if secs := r.Duration.Seconds(); secs > 0 {
		r.AverageTPS = float64(r.Sent) / secs
	}
}
