package indicator

import (
	"fmt"
	"time"

	"stock-analyzer/internal/market"
)

// Calculator 按行情序列计算指标帧，可选挂载显式缓存。
type Calculator struct {
	params Params
	cache  *Cache
}

// NewCalculator 创建 Calculator；cache 为 nil 时每次重新计算。
func NewCalculator(params Params, cache *Cache) *Calculator {
	return &Calculator{
		params: params,
		cache:  cache,
	}
}

// Params 返回计算参数。
func (c *Calculator) Params() Params {
	return c.params
}

// Compute 计算指标帧，序列长度与行情逐位对齐。
func (c *Calculator) Compute(history market.History) (*Frame, error) {
	if history.Len() == 0 {
		return nil, fmt.Errorf("indicator: 输入行情序列为空")
	}

	fingerprint := Fingerprint(history.Len(), history.Last().Date)
	if c.cache != nil {
		if frame, ok := c.cache.Get(history.Symbol(), fingerprint); ok {
			return frame, nil
		}
	}

	bars := history.Bars()
	dates := make([]time.Time, len(bars))
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		dates[i] = bar.Date
		closes[i] = bar.Close
	}

	frame := ComputeFrame(dates, closes, c.params)

	if c.cache != nil {
		c.cache.Set(history.Symbol(), fingerprint, frame)
	}

	return frame, nil
}
