package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBacktestRequest_WireFieldNames(t *testing.T) {
	payload := `{"symbol":"AAPL","strategy":"buy_hold","startDate":"2024-01-01","endDate":"2024-02-01","capital":5000}`

	var req BacktestRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	if req.StartDate != "2024-01-01" {
		t.Errorf("expected startDate decoded, got %q", req.StartDate)
	}
	if req.EndDate != "2024-02-01" {
		t.Errorf("expected endDate decoded, got %q", req.EndDate)
	}
	if req.Symbol != "AAPL" || req.Strategy != "buy_hold" || req.Capital != 5000 {
		t.Errorf("unexpected decoded request: %+v", req)
	}
}

func TestBacktestResponse_WireFieldNames(t *testing.T) {
	response := BacktestResponse{
		Symbol:    "AAPL",
		Strategy:  "buy_hold",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-01",
		Capital:   5000,
	}

	encoded, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	body := string(encoded)
	for _, key := range []string{`"startDate":"2024-01-01"`, `"endDate":"2024-02-01"`, `"final_value"`, `"total_return"`, `"win_rate"`, `"max_drawdown"`, `"sharpe_ratio"`} {
		if !strings.Contains(body, key) {
			t.Errorf("expected %s in encoded response, got %s", key, body)
		}
	}
	if strings.Contains(body, "start_date") || strings.Contains(body, "end_date") {
		t.Errorf("expected camelCase date keys only, got %s", body)
	}
}
