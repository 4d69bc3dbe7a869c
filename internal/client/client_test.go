package client

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// fakeRPC answers every JSON-RPC request with a fixed result.
func fakeRPC(t *testing.T, results map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			return
		}

		resp := map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  results[req.Method],
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
}

func TestClientChainID(t *testing.T) {
	srv := fakeRPC(t, map[string]any{"eth_chainId": "0x539"})
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, Name: "fake"})
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer c.Close()

	chainID, err := c.ChainID(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chainID.Cmp(big.NewInt(1337)) != 0 {
		t.Errorf("chain ID = %v, want 1337", chainID)
	}
}

func TestWaitForReceiptTimeout(t *testing.T) {
	// The receipt never appears; result stays null.
	srv := fakeRPC(t, map[string]any{"eth_getTransactionReceipt": nil})
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, Name: "fake"})
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer c.Close()

	_, err = c.WaitForReceipt(context.Background(), common.Hash{0x01}, 0)
	if !errors.Is(err, ErrReceiptTimeout) {
		t.Errorf("expected ErrReceiptTimeout, got %v", err)
	}
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantName  string
		wantGroup string
	}{
		{
			name:      "name from host",
			cfg:       Config{URL: "http://geth-1.devnet.local:8545"},
			wantName:  "geth-1",
			wantGroup: "default",
		},
		{
			name:      "name from bare host",
			cfg:       Config{URL: "http://localhost:8545"},
			wantName:  "localhost",
			wantGroup: "default",
		},
		{
			name:      "ip host",
			cfg:       Config{URL: "http://127.0.0.1:32769"},
			wantName:  "127",
			wantGroup: "default",
		},
		{
			name:      "explicit name and group kept",
			cfg:       Config{URL: "http://localhost:8545", Name: "primary", Group: "geth"},
			wantName:  "primary",
			wantGroup: "geth",
		},
		{
			name:      "unparseable url falls back to itself",
			cfg:       Config{URL: "not a url"},
			wantName:  "not a url",
			wantGroup: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.normalize()

			if tt.cfg.Name != tt.wantName {
				t.Errorf("name = %q, want %q", tt.cfg.Name, tt.wantName)
			}
			if tt.cfg.Group != tt.wantGroup {
				t.Errorf("group = %q, want %q", tt.cfg.Group, tt.wantGroup)
			}
		})
	}
}

func TestConfigNormalizeTimeout(t *testing.T) {
	cfg := Config{URL: "http://localhost:8545"}
	cfg.normalize()
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}

	cfg = Config{URL: "http://localhost:8545", Timeout: 5 * time.Second}
	cfg.normalize()
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Timeout)
	}
}
