package backtest

import (
	"time"

	"stock-analyzer/internal/strategy"
)

// Trade 记录一次完整的开平仓，卖出成交后不可变更。
type Trade struct {
	EntryDate  time.Time `json:"entry_date"`
	ExitDate   time.Time `json:"exit_date"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   float64   `json:"quantity"`
	Profit     float64   `json:"profit"`
	ForcedExit bool      `json:"forced_exit,omitempty"`
}

// Performance 汇总回测绩效指标。
type Performance struct {
	FinalValue  float64 `json:"final_value"`
	TotalReturn float64 `json:"total_return"`
	WinRate     float64 `json:"win_rate"`
	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// Result 为一次回测的完整输出，生成后只读。
type Result struct {
	Symbol      string            `json:"symbol"`
	Strategy    string            `json:"strategy"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end"`
	Capital     float64           `json:"capital"`
	Performance Performance       `json:"performance"`
	Trades      []Trade           `json:"trades"`
	EquityCurve []float64         `json:"equity_curve"`
	Signals     []strategy.Signal `json:"signals"`
}
