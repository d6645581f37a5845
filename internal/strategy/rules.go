package strategy

import (
	"stock-analyzer/internal/indicator"
)

// RSIReversion 为均值回归规则：RSI 低于超卖阈值买入，高于超买阈值卖出。
// 两个条件同时命中时（理论上仅在阈值交叉配置下出现），买入优先。
type RSIReversion struct {
	oversold   float64
	overbought float64
}

// NewRSIReversion 创建RSI均值回归策略。
func NewRSIReversion(oversold, overbought float64) *RSIReversion {
	if oversold <= 0 {
		oversold = 30
	}
	if overbought <= 0 {
		overbought = 70
	}
	return &RSIReversion{oversold: oversold, overbought: overbought}
}

func (s *RSIReversion) Name() string {
	return "rsi_reversion"
}

func (s *RSIReversion) Next(i int, frame *indicator.Frame) Kind {
	rsi := frame.RSI[i]
	if !indicator.Defined(rsi) {
		return Hold
	}
	switch {
	case rsi < s.oversold:
		return Buy
	case rsi > s.overbought:
		return Sell
	default:
		return Hold
	}
}

// BollingerReversion 为布林带回归规则：触及下轨买入，触及上轨卖出。
type BollingerReversion struct{}

// NewBollingerReversion 创建布林带回归策略。
func NewBollingerReversion() *BollingerReversion {
	return &BollingerReversion{}
}

func (s *BollingerReversion) Name() string {
	return "bollinger_reversion"
}

func (s *BollingerReversion) Next(i int, frame *indicator.Frame) Kind {
	upper := frame.BBUpper[i]
	lower := frame.BBLower[i]
	if !indicator.Defined(upper) || !indicator.Defined(lower) {
		return Hold
	}

	close := frame.Close[i]
	switch {
	case close <= lower:
		return Buy
	case close >= upper:
		return Sell
	default:
		return Hold
	}
}

// BuyHold 在首根K线买入后一直持有，用于基准对比。
type BuyHold struct {
	bought bool
}

// NewBuyHold 创建买入持有策略。
func NewBuyHold() *BuyHold {
	return &BuyHold{}
}

func (s *BuyHold) Name() string {
	return "buy_hold"
}

func (s *BuyHold) Next(i int, frame *indicator.Frame) Kind {
	if !s.bought {
		s.bought = true
		return Buy
	}
	return Hold
}
