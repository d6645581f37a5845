package market

import (
	"context"
	"errors"
	"fmt"
	"testing"

	ccxt "github.com/ccxt/ccxt/go/v4"

	"stock-analyzer/internal/config"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", &ccxt.Error{Type: ccxt.RateLimitExceededErrType, Message: "slow down"}, true},
		{"network error", &ccxt.Error{Type: ccxt.NetworkErrorErrType}, true},
		{"auth error", &ccxt.Error{Type: ccxt.AuthenticationErrorErrType}, false},
		{"maintenance", &ccxt.Error{Type: ccxt.OnMaintenanceErrType}, false},
		{"wrapped ccxt error", fmt.Errorf("fetch: %w", &ccxt.Error{Type: ccxt.RequestTimeoutErrType}), true},
		{"net timeout", timeoutErr{}, true},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v): expected %v, got %v", tc.err, tc.want, got)
			}
		})
	}
}

func TestClientClassifyError_Maintenance(t *testing.T) {
	client, err := NewClient(config.MarketConfig{Exchange: "binance", Timeframe: "1d"}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	classified, retry := client.classifyError(&ccxt.Error{Type: ccxt.OnMaintenanceErrType, Message: "scheduled"})
	if !errors.Is(classified, ErrMaintenance) {
		t.Fatalf("expected ErrMaintenance, got %v", classified)
	}
	if retry {
		t.Errorf("expected maintenance not retryable")
	}

	_, retry = client.classifyError(&ccxt.Error{Type: ccxt.DDoSProtectionErrType})
	if !retry {
		t.Errorf("expected ddos protection retryable")
	}
}
