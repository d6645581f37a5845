package market

import (
	"fmt"
	"time"
)

// Bar 代表单根日线行情记录。
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// History 为按日期升序排列的不可变行情序列。
type History struct {
	symbol string
	bars   []Bar
}

// NewHistory 校验并构造行情序列，要求日期严格递增且无重复。
func NewHistory(symbol string, bars []Bar) (History, error) {
	if symbol == "" {
		return History{}, fmt.Errorf("market: symbol 不能为空")
	}
	if len(bars) == 0 {
		return History{}, fmt.Errorf("market: %w", ErrEmptyHistory)
	}

	copied := make([]Bar, len(bars))
	copy(copied, bars)

	for i := 1; i < len(copied); i++ {
		if !copied[i].Date.After(copied[i-1].Date) {
			return History{}, fmt.Errorf("market: %w: 第%d根与第%d根", ErrUnorderedHistory, i-1, i)
		}
	}

	return History{symbol: symbol, bars: copied}, nil
}

// Symbol 返回标的名称。
func (h History) Symbol() string {
	return h.symbol
}

// Len 返回序列长度。
func (h History) Len() int {
	return len(h.bars)
}

// Bars 返回底层序列的副本，保证外部无法篡改。
func (h History) Bars() []Bar {
	dst := make([]Bar, len(h.bars))
	copy(dst, h.bars)
	return dst
}

// Bar 返回指定位置的行情记录。
func (h History) Bar(i int) Bar {
	return h.bars[i]
}

// Closes 返回收盘价序列。
func (h History) Closes() []float64 {
	closes := make([]float64, len(h.bars))
	for i, bar := range h.bars {
		closes[i] = bar.Close
	}
	return closes
}

// Last 返回最后一根行情记录。
func (h History) Last() Bar {
	return h.bars[len(h.bars)-1]
}

// Slice 截取[start, end]区间的子序列；区间非法或无数据时返回 ErrInvalidDateRange。
func (h History) Slice(start, end time.Time) (History, error) {
	if !start.Before(end) {
		return History{}, fmt.Errorf("market: %w: start %s >= end %s",
			ErrInvalidDateRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	lo, hi := -1, -1
	for i, bar := range h.bars {
		if lo < 0 && !bar.Date.Before(start) {
			lo = i
		}
		if !bar.Date.After(end) {
			hi = i
		}
	}
	if lo < 0 || hi < lo {
		return History{}, fmt.Errorf("market: %w: 区间内无可用数据", ErrInvalidDateRange)
	}

	return History{symbol: h.symbol, bars: h.bars[lo : hi+1]}, nil
}

// Quote 为单个标的的实时快照。
type Quote struct {
	Symbol        string
	CurrentPrice  float64
	ChangePercent float64
	MarketCap     *float64
	RetrievedAt   time.Time
}

// Snapshot 聚合行情序列与报价。
type Snapshot struct {
	History     History
	Quote       Quote
	RetrievedAt time.Time
}
