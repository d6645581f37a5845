package strategy

import (
	"stock-analyzer/internal/indicator"
)

// DipRebound 为急跌反弹规则：较前一根收盘下跌达到 drop 比例买入，
// 自买入参考价上涨达到 rise 比例卖出。参考价为规则最近一次发出买入
// 信号时的收盘价。
type DipRebound struct {
	drop float64
	rise float64

	holding  bool
	entryRef float64
}

// NewDipRebound 创建急跌反弹策略。
func NewDipRebound(drop, rise float64) *DipRebound {
	if drop <= 0 {
		drop = 0.10
	}
	if rise <= 0 {
		rise = 0.10
	}
	return &DipRebound{drop: drop, rise: rise}
}

func (s *DipRebound) Name() string {
	return "dip_rebound"
}

func (s *DipRebound) Next(i int, frame *indicator.Frame) Kind {
	if i == 0 {
		return Hold
	}

	close := frame.Close[i]
	prev := frame.Close[i-1]
	if !indicator.Defined(close) || !indicator.Defined(prev) || prev <= 0 {
		return Hold
	}

	if !s.holding {
		if close <= prev*(1-s.drop) {
			s.holding = true
			s.entryRef = close
			return Buy
		}
		return Hold
	}

	if s.entryRef > 0 && close >= s.entryRef*(1+s.rise) {
		s.holding = false
		s.entryRef = 0
		return Sell
	}

	return Hold
}
