package strategy

import (
	"stock-analyzer/internal/indicator"
)

// MACDCrossover 为 MACD 金叉死叉规则：MACD 线上穿信号线买入，下穿卖出。
// 判定需要当根与前一根均已定义。
type MACDCrossover struct{}

// NewMACDCrossover 创建MACD交叉策略。
func NewMACDCrossover() *MACDCrossover {
	return &MACDCrossover{}
}

func (s *MACDCrossover) Name() string {
	return "macd_crossover"
}

func (s *MACDCrossover) Next(i int, frame *indicator.Frame) Kind {
	if i == 0 {
		return Hold
	}
	return crossoverSignal(
		frame.MACDLine[i-1], frame.MACDSignal[i-1],
		frame.MACDLine[i], frame.MACDSignal[i],
	)
}

// SMACrossover 为均线交叉规则：快线上穿慢线买入，下穿卖出。
type SMACrossover struct{}

// NewSMACrossover 创建均线交叉策略。
func NewSMACrossover() *SMACrossover {
	return &SMACrossover{}
}

func (s *SMACrossover) Name() string {
	return "sma_crossover"
}

func (s *SMACrossover) Next(i int, frame *indicator.Frame) Kind {
	if i == 0 {
		return Hold
	}
	return crossoverSignal(
		frame.SMAFast[i-1], frame.SMASlow[i-1],
		frame.SMAFast[i], frame.SMASlow[i],
	)
}

// crossoverSignal 根据前后两根的快慢线关系判定交叉方向。
func crossoverSignal(prevFast, prevSlow, fast, slow float64) Kind {
	if !indicator.Defined(prevFast) || !indicator.Defined(prevSlow) ||
		!indicator.Defined(fast) || !indicator.Defined(slow) {
		return Hold
	}
	switch {
	case prevFast <= prevSlow && fast > slow:
		return Buy
	case prevFast >= prevSlow && fast < slow:
		return Sell
	default:
		return Hold
	}
}
