package payload

import (
	"errors"
	"testing"
)

func TestMaxZeroBytes(t *testing.T) {
	tests := []struct {
		name      string
		gasBudget uint64
		want      uint64
		wantErr   bool
	}{
		{name: "exactly base", gasBudget: TxBaseCost, wantErr: true},
		{name: "below base", gasBudget: 1000, wantErr: true},
		{name: "zero", gasBudget: 0, wantErr: true},
		{name: "one byte", gasBudget: TxBaseCost + CostZeroByte, want: 1},
		{name: "partial byte rounds down", gasBudget: TxBaseCost + CostZeroByte + 9, want: 1},
		{name: "30M block", gasBudget: 30_000_000, want: (30_000_000 - TxBaseCost) / CostZeroByte},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxZeroBytes(tt.gasBudget)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBudget) {
					t.Fatalf("expected ErrInvalidBudget, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MaxZeroBytes(%d) = %d, want %d", tt.gasBudget, got, tt.want)
			}
		})
	}
}

func TestMaxNonZeroBytes(t *testing.T) {
	if _, err := MaxNonZeroBytes(TxBaseCost); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}

	got, err := MaxNonZeroBytes(TxBaseCost + 10*CostNonZeroByte)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10 {
		t.Errorf("MaxNonZeroBytes = %d, want 10", got)
	}
}

func TestMaxBytesMonotonic(t *testing.T) {
	var prevZero, prevNonZero uint64
	for budget := uint64(TxBaseCost + 1); budget < TxBaseCost+10_000; budget += 97 {
		zeros, err := MaxZeroBytes(budget)
		if err != nil {
			t.Fatalf("budget %d: %v", budget, err)
		}
		nonZeros, err := MaxNonZeroBytes(budget)
		if err != nil {
			t.Fatalf("budget %d: %v", budget, err)
		}

		if zeros < prevZero {
			t.Fatalf("MaxZeroBytes decreased at budget %d: %d < %d", budget, zeros, prevZero)
		}
		if nonZeros < prevNonZero {
			t.Fatalf("MaxNonZeroBytes decreased at budget %d: %d < %d", budget, nonZeros, prevNonZero)
		}
		prevZero, prevNonZero = zeros, nonZeros
	}
}

func TestMaxMixedBytesPacking(t *testing.T) {
	budgets := []uint64{TxBaseCost + 1, TxBaseCost + 100, 100_000, 1_000_000, 30_000_000}
	percents := []int{1, 29, 50, 71, 99}

	for _, budget := range budgets {
		for _, pct := range percents {
			nonZeros, zeros, err := MaxMixedBytes(budget, pct)
			if err != nil {
				t.Fatalf("budget %d pct %d: %v", budget, pct, err)
			}

			available := budget - TxBaseCost
			used := zeros*CostZeroByte + nonZeros*CostNonZeroByte
			if used > available {
				t.Errorf("budget %d pct %d: used %d exceeds available %d", budget, pct, used, available)
			}
			if slack := available - used; slack >= CostNonZeroByte {
				t.Errorf("budget %d pct %d: slack %d not below %d", budget, pct, slack, CostNonZeroByte)
			}
		}
	}
}

func TestMaxMixedBytesErrors(t *testing.T) {
	if _, _, err := MaxMixedBytes(TxBaseCost, 71); !errors.Is(err, ErrInvalidBudget) {
		t.Errorf("expected ErrInvalidBudget, got %v", err)
	}
	for _, pct := range []int{0, -5, 100, 150} {
		if _, _, err := MaxMixedBytes(100_000, pct); !errors.Is(err, ErrInvalidMixPercent) {
			t.Errorf("pct %d: expected ErrInvalidMixPercent, got %v", pct, err)
		}
	}
}

func TestMaxAccessListKeys(t *testing.T) {
	if _, err := MaxAccessListKeys(TxBaseCost); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}

	budget := uint64(TxBaseCost + AccessListAddressCost + 5*AccessListStorageKeyCost)
	got, err := MaxAccessListKeys(budget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Errorf("MaxAccessListKeys(%d) = %d, want 5", budget, got)
	}
}

func TestZeroBytes(t *testing.T) {
	b := ZeroBytes(64)
	if len(b) != 64 {
		t.Fatalf("len = %d, want 64", len(b))
	}
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d is %#x, want 0", i, v)
		}
	}
}

func TestNonZeroBytes(t *testing.T) {
	b := NonZeroBytes(1024)
	if len(b) != 1024 {
		t.Fatalf("len = %d, want 1024", len(b))
	}
	for i, v := range b {
		if v == 0 {
			t.Fatalf("byte %d is zero", i)
		}
	}
}

func TestMixedBytes(t *testing.T) {
	const (
		zeros    = 300
		nonZeros = 200
	)

	b := MixedBytes(zeros, nonZeros)
	if len(b) != zeros+nonZeros {
		t.Fatalf("len = %d, want %d", len(b), zeros+nonZeros)
	}

	gotZeros := 0
	for _, v := range b {
		if v == 0 {
			gotZeros++
		}
	}
	if gotZeros != zeros {
		t.Errorf("zero count = %d, want %d", gotZeros, zeros)
	}

	// The zero run must not survive the shuffle at the front.
	leading := 0
	for _, v := range b {
		if v != 0 {
			break
		}
		leading++
	}
	if leading == zeros {
		t.Errorf("all %d zero bytes are at the front; shuffle did not run", zeros)
	}
}

func TestRandomAccessList(t *testing.T) {
	list := RandomAccessList(3, 7)
	if len(list) != 3 {
		t.Fatalf("entries = %d, want 3", len(list))
	}
	for i, entry := range list {
		if len(entry.StorageKeys) != 7 {
			t.Errorf("entry %d: keys = %d, want 7", i, len(entry.StorageKeys))
		}
	}
}
