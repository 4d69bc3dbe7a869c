package types

import (
	"testing"
	"time"
)

func TestResultFinalize(t *testing.T) {
	r := &Result{
		Sent:      100,
		StartTime: time.Now().Add(-2 * time.Second),
	}
	r.Finalize()

	if r.EndTime.Before(r.StartTime) {
		t.Error("end time before start time")
	}
	if r.Duration < 2*time.Second {
		t.Errorf("duration = %v, want >= 2s", r.Duration)
	}
	if r.AverageTPS < 40 || r.AverageTPS > 50 {
		t.Errorf("average TPS = %.2f, want around 50", r.AverageTPS)
	}
}

func TestResultFinalizeZeroDuration(t *testing.T) {
	r := &Result{Sent: 5, StartTime: time.Now().Add(time.Hour)}
	r.Finalize()
	if r.AverageTPS != 0 {
		t.Errorf("average TPS = %.2f, want 0 for non-positive duration", r.AverageTPS)
	}
}
