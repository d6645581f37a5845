package api

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"stock-analyzer/internal/backtest"
	"stock-analyzer/internal/config"
	"stock-analyzer/internal/indicator"
	"stock-analyzer/internal/market"
	"stock-analyzer/internal/sentiment"
)

const dateLayout = "2006-01-02"

// HistorySource 抽象行情入口，便于在测试中注入固定序列。
type HistorySource interface {
	History(ctx context.Context, symbol string) (market.History, error)
	Snapshot(ctx context.Context, symbol string) (market.Snapshot, error)
}

// SampleSource 抽象情绪样本来源；文本采集与打分由上游完成。
type SampleSource interface {
	Samples(ctx context.Context, symbol string) ([]sentiment.Sample, error)
}

// Service 把内部引擎的结果整理为展示层结构，不承担任何传输职责。
type Service struct {
	cfg        config.BacktestConfig
	markets    HistorySource
	engine     *backtest.Engine
	calculator *indicator.Calculator
	fusion     *sentiment.Fusion
	samples    SampleSource
	logger     *zap.Logger
}

// NewService 创建展示层服务；samples 可为 nil，此时情绪接口不可用。
func NewService(
	cfg config.BacktestConfig,
	markets HistorySource,
	engine *backtest.Engine,
	calculator *indicator.Calculator,
	fusion *sentiment.Fusion,
	samples SampleSource,
	logger *zap.Logger,
) (*Service, error) {
	if markets == nil {
		return nil, fmt.Errorf("api: markets 不能为空")
	}
	if engine == nil {
		return nil, fmt.Errorf("api: engine 不能为空")
	}
	if calculator == nil {
		return nil, fmt.Errorf("api: calculator 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:        cfg,
		markets:    markets,
		engine:     engine,
		calculator: calculator,
		fusion:     fusion,
		samples:    samples,
		logger:     logger,
	}, nil
}

// RunBacktest 执行一次回测并整理为账本形态的响应。
func (s *Service) RunBacktest(ctx context.Context, req BacktestRequest) (*BacktestResponse, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("api: symbol 不能为空")
	}
	if req.Strategy == "" {
		return nil, fmt.Errorf("api: strategy 不能为空")
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("api: start_date 格式错误: %w", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("api: end_date 格式错误: %w", err)
	}

	capital := req.Capital
	if capital <= 0 {
		capital = s.cfg.InitialCapital
	}

	history, err := s.markets.History(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Run(ctx, backtest.Config{
		Symbol:              req.Symbol,
		Strategy:            req.Strategy,
		Start:               start,
		End:                 end,
		InitialCapital:      capital,
		CommissionRate:      s.cfg.CommissionRate,
		SlippageRate:        s.cfg.SlippageRate,
		AnnualizationFactor: s.cfg.AnnualizationFactor,
		ForceCloseAtEnd:     s.cfg.ForceCloseAtEnd,
	}, history)
	if err != nil {
		return nil, err
	}

	return buildBacktestResponse(result, history), nil
}

// IndicatorSnapshot 返回指定标的的最新报价与指标视图。
func (s *Service) IndicatorSnapshot(ctx context.Context, symbol string) (*IndicatorSnapshot, error) {
	if symbol == "" {
		return nil, fmt.Errorf("api: symbol 不能为空")
	}

	snapshot, err := s.markets.Snapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}

	frame, err := s.calculator.Compute(snapshot.History)
	if err != nil {
		return nil, err
	}

	view := &IndicatorSnapshot{
		Symbol:        symbol,
		CurrentPrice:  snapshot.Quote.CurrentPrice,
		ChangePercent: snapshot.Quote.ChangePercent,
		MarketCap:     snapshot.Quote.MarketCap,
		RSI:           definedValue(indicator.Last(frame.RSI)),
		MACD:          definedValue(indicator.Last(frame.MACDLine)),
	}

	if upper := indicator.Last(frame.BBUpper); indicator.Defined(upper) {
		view.BollingerBands = &BollingerView{
			Upper:  upper,
			Middle: indicator.Last(frame.BBMiddle),
			Lower:  indicator.Last(frame.BBLower),
		}
	}

	return view, nil
}

// SentimentSnapshot 返回融合后的情绪视图及分来源统计。
func (s *Service) SentimentSnapshot(ctx context.Context, symbol string) (*SentimentSnapshot, error) {
	if symbol == "" {
		return nil, fmt.Errorf("api: symbol 不能为空")
	}
	if s.samples == nil || s.fusion == nil {
		return nil, fmt.Errorf("api: 情绪分析未启用")
	}

	samples, err := s.samples.Samples(ctx, symbol)
	if err != nil {
		return nil, err
	}

	signal := s.fusion.Classify(samples)

	view := &SentimentSnapshot{
		Symbol:         symbol,
		SentimentScore: signal.CompositeScore,
		Confidence:     signal.Confidence,
		Signal:         string(signal.Signal),
		Strength:       string(signal.Strength),
		Timestamp:      signal.GeneratedAt,
	}
	view.NewsData.ArticleCount, view.NewsData.SentimentScore = aggregateSamples(samples, sentiment.SourceNews)
	view.SocialData.TweetCount, view.SocialData.SocialSentiment = aggregateSamples(samples, sentiment.SourceSocial)

	return view, nil
}

func buildBacktestResponse(result backtest.Result, history market.History) *BacktestResponse {
	start := result.Start
	end := result.End
	if start.IsZero() {
		start = history.Bar(0).Date
	}
	if end.IsZero() {
		end = history.Last().Date
	}

	rows := make([]TradeRow, 0, len(result.Trades)*2)
	for _, trade := range result.Trades {
		rows = append(rows,
			TradeRow{
				Date:     trade.EntryDate.Format(dateLayout),
				Type:     "BUY",
				Price:    trade.EntryPrice,
				Quantity: trade.Quantity,
			},
			TradeRow{
				Date:     trade.ExitDate.Format(dateLayout),
				Type:     "SELL",
				Price:    trade.ExitPrice,
				Quantity: trade.Quantity,
				Profit:   trade.Profit,
			},
		)
	}

	return &BacktestResponse{
		Symbol:    result.Symbol,
		Strategy:  result.Strategy,
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Capital:   result.Capital,
		Performance: PerformanceView{
			FinalValue:  result.Performance.FinalValue,
			TotalReturn: result.Performance.TotalReturn,
			WinRate:     result.Performance.WinRate,
			MaxDrawdown: result.Performance.MaxDrawdown,
			SharpeRatio: result.Performance.SharpeRatio,
		},
		Trades: rows,
	}
}

func aggregateSamples(samples []sentiment.Sample, source sentiment.Source) (int, float64) {
	total := 0
	weighted := 0.0
	for _, sample := range samples {
		if sample.Source != source || sample.SampleCount <= 0 {
			continue
		}
		total += sample.SampleCount
		weighted += sample.Score * float64(sample.SampleCount)
	}
	if total == 0 {
		return 0, 0
	}
	return total, weighted / float64(total)
}

func definedValue(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	value := v
	return &value
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, value)
}
