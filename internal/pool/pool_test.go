package pool

import (
	"errors"
	"sync"
	"testing"
)

func TestSelectEmptyPool(t *testing.T) {
	p := New[string](nil)

	for _, mode := range []Mode{ByIndex, Random, RoundRobin} {
		if _, err := p.Select(mode, 0); !errors.Is(err, ErrEmpty) {
			t.Errorf("mode %s: expected ErrEmpty, got %v", mode, err)
		}
	}
}

func TestSelectUnknownMode(t *testing.T) {
	p := New([]string{"a"})

	if _, err := p.Select(Mode(42), 0); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestSelectByIndex(t *testing.T) {
	p := New([]string{"a", "b", "c"})

	tests := []struct {
		name string
		idx  int
		want string
	}{
		{name: "in range", idx: 1, want: "b"},
		{name: "wraps", idx: 4, want: "b"},
		{name: "zero", idx: 0, want: "a"},
		{name: "negative", idx: -1, want: "c"},
		{name: "negative wraps", idx: -4, want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Select(ByIndex, tt.idx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Select(ByIndex, %d) = %q, want %q", tt.idx, got, tt.want)
			}
		})
	}
}

func TestSelectByIndexDoesNotAdvanceCursor(t *testing.T) {
	p := New([]string{"a", "b", "c"})

	if _, err := p.Select(ByIndex, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := p.Select(RoundRobin, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a" {
		t.Errorf("round-robin after by-index returned %q, want %q", got, "a")
	}
}

func TestSelectRandomInRange(t *testing.T) {
	items := []string{"a", "b", "c"}
	p := New(items)

	valid := make(map[string]bool, len(items))
	for _, it := range items {
		valid[it] = true
	}

	for i := 0; i < 100; i++ {
		got, err := p.Select(Random, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !valid[got] {
			t.Fatalf("Select(Random) returned %q, not a loaded item", got)
		}
	}
}

func TestRoundRobinFullSweep(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	p := New(items)

	// Two full sweeps visit every item in load order before repeating.
	for sweep := 0; sweep < 2; sweep++ {
		for i, want := range items {
			got, err := p.Select(RoundRobin, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Errorf("sweep %d position %d: got %q, want %q", sweep, i, got, want)
			}
		}
	}
}

func TestLoadResetsCursor(t *testing.T) {
	p := New([]string{"a", "b", "c"})

	if _, err := p.Select(RoundRobin, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.Load([]string{"x", "y"})
	got, err := p.Select(RoundRobin, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "x" {
		t.Errorf("round-robin after reload returned %q, want %q", got, "x")
	}
}

func TestRoundRobinConcurrentFairness(t *testing.T) {
	const (
		n       = 7
		callers = 100
	)

	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	p := New(items)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[int]int, n)
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Select(RoundRobin, 0)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			results[got]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	// 100 callers over 7 items: every item is assigned either 14 or 15
	// times, with no duplicates within a sweep.
	base := callers / n
	extra := callers % n
	seen := 0
	for item, count := range results {
		if count != base && count != base+1 {
			t.Errorf("item %d selected %d times, want %d or %d", item, count, base, base+1)
		}
		if count == base+1 {
			extra--
		}
		seen += count
	}
	if seen != callers {
		t.Errorf("total selections = %d, want %d", seen, callers)
	}
	if extra != 0 {
		t.Errorf("distribution of extra selections is uneven")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "index", want: ByIndex},
		{in: "random", want: Random},
		{in: "round-robin", want: RoundRobin},
		{in: "roundrobin", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
