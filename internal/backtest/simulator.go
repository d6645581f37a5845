package backtest

import (
	"math"
	"time"

	"stock-analyzer/internal/market"
	"stock-analyzer/internal/strategy"
)

// runState 枚举模拟器状态：空仓或持有多头。
type runState int

const (
	stateFlat runState = iota
	stateLong
)

// Position 记录当前持仓，仅在单次回测内由模拟器独占。
type Position struct {
	Quantity    float64
	AverageCost float64
	EntryDate   time.Time
	EntryPrice  float64
}

// Simulator 为逐根推进的账户状态机。同一实例不可并发使用；
// 独立回测各自持有独立实例，可跨 goroutine 并行。
type Simulator struct {
	initialCapital float64
	commissionRate float64
	slippageRate   float64

	state    runState
	cash     float64
	position Position

	equityCurve []float64
	returns     []float64
	trades      []Trade
}

// NewSimulator 创建模拟器，初始状态为空仓、现金等于初始资金。
func NewSimulator(initialCapital, commissionRate, slippageRate float64) *Simulator {
	if initialCapital <= 0 {
		initialCapital = 10000
	}
	return &Simulator{
		initialCapital: initialCapital,
		commissionRate: commissionRate,
		slippageRate:   slippageRate,
		state:          stateFlat,
		cash:           initialCapital,
	}
}

// Apply 按状态转移表处理单个信号。
// 空仓+买入 → 开仓；持仓+卖出 → 全部平仓；
// 其余组合（HOLD、空仓卖出、持仓买入）均为显式空转移。
func (s *Simulator) Apply(sig strategy.Kind, bar market.Bar) {
	switch s.state {
	case stateFlat:
		if sig == strategy.Buy {
			s.open(bar)
		}
	case stateLong:
		if sig == strategy.Sell {
			s.close(bar, false)
		}
	}
}

// ForceClose 在序列结束时按收盘价强制平仓，使最终市值可比。
func (s *Simulator) ForceClose(bar market.Bar) {
	if s.state == stateLong {
		s.close(bar, true)
	}
}

// Mark 以收盘价对账户做逐根盯市，记录净值曲线与区间收益。
func (s *Simulator) Mark(bar market.Bar) {
	equity := s.cash + s.position.Quantity*bar.Close
	if n := len(s.equityCurve); n > 0 && s.equityCurve[n-1] > 0 {
		s.returns = append(s.returns, equity/s.equityCurve[n-1]-1)
	}
	s.equityCurve = append(s.equityCurve, equity)
}

func (s *Simulator) open(bar market.Bar) {
	fill := bar.Close * (1 + s.slippageRate)
	if fill <= 0 {
		return
	}

	// 含手续费折算可买股数，保证投入不超过可用现金。
	quantity := math.Floor(s.cash / (fill * (1 + s.commissionRate)))
	if quantity < 1 {
		return
	}

	cost := quantity * fill
	commission := cost * s.commissionRate
	s.cash -= cost + commission

	s.position = Position{
		Quantity:    quantity,
		AverageCost: (cost + commission) / quantity,
		EntryDate:   bar.Date,
		EntryPrice:  fill,
	}
	s.state = stateLong
}

func (s *Simulator) close(bar market.Bar, forced bool) {
	fill := bar.Close * (1 - s.slippageRate)
	proceeds := s.position.Quantity * fill
	commission := proceeds * s.commissionRate
	s.cash += proceeds - commission

	profit := proceeds - commission - s.position.Quantity*s.position.AverageCost

	s.trades = append(s.trades, Trade{
		EntryDate:  s.position.EntryDate,
		ExitDate:   bar.Date,
		EntryPrice: s.position.EntryPrice,
		ExitPrice:  fill,
		Quantity:   s.position.Quantity,
		Profit:     profit,
		ForcedExit: forced,
	})

	s.position = Position{}
	s.state = stateFlat
}

// Equity 返回最近一次盯市的账户净值。
func (s *Simulator) Equity() float64 {
	if len(s.equityCurve) == 0 {
		return s.initialCapital
	}
	return s.equityCurve[len(s.equityCurve)-1]
}

// Holding 返回当前是否持仓。
func (s *Simulator) Holding() bool {
	return s.state == stateLong
}

// Trades 返回成交记录副本。
func (s *Simulator) Trades() []Trade {
	return append([]Trade(nil), s.trades...)
}

// EquityCurve 返回净值曲线副本。
func (s *Simulator) EquityCurve() []float64 {
	return append([]float64(nil), s.equityCurve...)
}

// Returns 返回逐根收益序列副本。
func (s *Simulator) Returns() []float64 {
	return append([]float64(nil), s.returns...)
}
