package backtest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stock-analyzer/internal/indicator"
	"stock-analyzer/internal/market"
	"stock-analyzer/internal/strategy"
)

// Engine 串联指标计算、信号规则与账户模拟，执行单次回测。
// Engine 自身无可变状态，可并发用于相互独立的回测。
type Engine struct {
	registry   *strategy.Registry
	calculator *indicator.Calculator
	logger     *zap.Logger
}

// NewEngine 构建回测引擎。
func NewEngine(registry *strategy.Registry, calculator *indicator.Calculator, logger *zap.Logger) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("backtest: registry 不能为空")
	}
	if calculator == nil {
		return nil, fmt.Errorf("backtest: calculator 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		registry:   registry,
		calculator: calculator,
		logger:     logger,
	}, nil
}

// Run 执行完整回测流程。策略未注册或日期区间非法时在模拟前拒绝，
// 不产生部分结果；输入相同则输出逐位可复现。
func (e *Engine) Run(ctx context.Context, cfg Config, history market.History) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	cfg = cfg.normalize()

	strat, err := e.registry.New(cfg.Strategy)
	if err != nil {
		return Result{}, err
	}

	window := history
	if !cfg.Start.IsZero() || !cfg.End.IsZero() {
		start, end := cfg.Start, cfg.End
		if start.IsZero() {
			start = history.Bar(0).Date
		}
		if end.IsZero() {
			end = history.Last().Date
		}
		window, err = history.Slice(start, end)
		if err != nil {
			return Result{}, fmt.Errorf("backtest: %w", err)
		}
	}

	frame, err := e.calculator.Compute(window)
	if err != nil {
		return Result{}, err
	}

	simulator := NewSimulator(cfg.InitialCapital, cfg.CommissionRate, cfg.SlippageRate)
	bars := window.Bars()
	signals := make([]strategy.Signal, 0, len(bars))

	for i, bar := range bars {
		kind := strat.Next(i, frame)
		signals = append(signals, strategy.Signal{Date: frame.Dates[i], Kind: kind})

		simulator.Apply(kind, bar)
		if i == len(bars)-1 && cfg.ForceCloseAtEnd {
			simulator.ForceClose(bar)
		}
		simulator.Mark(bar)
	}

	equity := simulator.EquityCurve()
	performance := calculatePerformance(cfg.InitialCapital, equity, simulator.Returns(), simulator.Trades(), cfg.AnnualizationFactor)

	e.logger.Debug("回测完成",
		zap.String("symbol", window.Symbol()),
		zap.String("strategy", cfg.Strategy),
		zap.Int("bars", len(bars)),
		zap.Int("trades", len(simulator.Trades())),
		zap.Float64("final_value", performance.FinalValue),
	)

	return Result{
		Symbol:      window.Symbol(),
		Strategy:    cfg.Strategy,
		Start:       bars[0].Date,
		End:         bars[len(bars)-1].Date,
		Capital:     cfg.InitialCapital,
		Performance: performance,
		Trades:      simulator.Trades(),
		EquityCurve: equity,
		Signals:     signals,
	}, nil
}
