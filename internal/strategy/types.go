package strategy

import "time"

// Kind 表示离散交易信号类型。
type Kind string

const (
	Buy  Kind = "BUY"
	Sell Kind = "SELL"
	Hold Kind = "HOLD"
)

// Signal 为单根K线对应的交易信号。
type Signal struct {
	Date time.Time `json:"date"`
	Kind Kind      `json:"kind"`
}
