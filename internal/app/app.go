package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stock-analyzer/internal/api"
	"stock-analyzer/internal/backtest"
	"stock-analyzer/internal/config"
	"stock-analyzer/internal/indicator"
	"stock-analyzer/internal/market"
	"stock-analyzer/internal/sentiment"
	"stock-analyzer/internal/store"
	"stock-analyzer/internal/strategy"
)

// App 聚合核心依赖并驱动一次完整的分析流程。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 按配置对每个标的执行各策略回测并输出绩效，全部完成后退出。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("分析系统已初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("exchange", a.cfg.Market.Exchange),
		zap.Strings("symbols", a.cfg.Market.Symbols),
		zap.Strings("strategies", a.cfg.Backtest.Strategies),
	)

	service, sentimentEnabled, err := a.buildService()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	responses := make([]*api.BacktestResponse, 0, len(a.cfg.Market.Symbols)*len(a.cfg.Backtest.Strategies))

	group, groupCtx := errgroup.WithContext(ctx)
	for _, symbol := range a.cfg.Market.Symbols {
		for _, name := range a.cfg.Backtest.Strategies {
			group.Go(func() error {
				response, err := service.RunBacktest(groupCtx, api.BacktestRequest{
					Symbol:   symbol,
					Strategy: name,
				})
				if err != nil {
					return fmt.Errorf("回测失败 (%s/%s): %w", symbol, name, err)
				}
				mu.Lock()
				responses = append(responses, response)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for _, response := range responses {
		a.logger.Info("回测完成",
			zap.String("symbol", response.Symbol),
			zap.String("strategy", response.Strategy),
			zap.String("start", response.StartDate),
			zap.String("end", response.EndDate),
			zap.Float64("final_value", response.Performance.FinalValue),
			zap.Float64("total_return", response.Performance.TotalReturn),
			zap.Float64("win_rate", response.Performance.WinRate),
			zap.Float64("max_drawdown", response.Performance.MaxDrawdown),
			zap.Float64("sharpe_ratio", response.Performance.SharpeRatio),
			zap.Int("trade_rows", len(response.Trades)),
		)
	}

	for _, symbol := range a.cfg.Market.Symbols {
		snapshot, err := service.IndicatorSnapshot(ctx, symbol)
		if err != nil {
			a.logger.Warn("生成指标快照失败", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		a.logger.Info("指标快照",
			zap.String("symbol", snapshot.Symbol),
			zap.Float64("current_price", snapshot.CurrentPrice),
			zap.Float64("change_percent", snapshot.ChangePercent),
			zap.Float64p("rsi", snapshot.RSI),
			zap.Float64p("macd", snapshot.MACD),
		)
	}

	if sentimentEnabled {
		for _, symbol := range a.cfg.Market.Symbols {
			snapshot, err := service.SentimentSnapshot(ctx, symbol)
			if err != nil {
				a.logger.Warn("生成情绪快照失败", zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			a.logger.Info("情绪快照",
				zap.String("symbol", snapshot.Symbol),
				zap.Float64("sentiment_score", snapshot.SentimentScore),
				zap.Float64("confidence", snapshot.Confidence),
				zap.String("signal", snapshot.Signal),
				zap.String("strength", snapshot.Strength),
			)
		}
	}

	a.logger.Info("全部分析任务完成", zap.Int("runs", len(responses)))
	return nil
}

func (a *App) buildService() (*api.Service, bool, error) {
	client, err := market.NewClient(a.cfg.Market, a.logger)
	if err != nil {
		return nil, false, fmt.Errorf("初始化行情客户端失败: %w", err)
	}

	var barStore market.BarStore
	if a.store != nil {
		barCache, err := store.NewBarCache(a.store, a.logger)
		if err != nil {
			return nil, false, fmt.Errorf("初始化行情缓存失败: %w", err)
		}
		barStore = barCache
	}

	markets, err := market.NewService(a.cfg.Market, client, barStore, a.logger)
	if err != nil {
		return nil, false, err
	}

	calculator := indicator.NewCalculator(
		paramsFromConfig(a.cfg.Strategy),
		indicator.NewCache(a.cfg.Cache.MaxEntries, a.cfg.Cache.TTL),
	)

	registry, err := strategy.NewDefaultRegistry(a.cfg.Strategy)
	if err != nil {
		return nil, false, fmt.Errorf("初始化策略注册表失败: %w", err)
	}

	engine, err := backtest.NewEngine(registry, calculator, a.logger)
	if err != nil {
		return nil, false, err
	}

	fusion := sentiment.NewFusion(a.cfg.Sentiment)

	samples, err := a.buildSampleSource()
	if err != nil {
		return nil, false, err
	}

	service, err := api.NewService(a.cfg.Backtest, markets, engine, calculator, fusion, samples, a.logger)
	if err != nil {
		return nil, false, err
	}

	return service, samples != nil, nil
}

// buildSampleSource 在配置了 OpenAI 密钥且本地库可用时组装情绪样本来源。
func (a *App) buildSampleSource() (api.SampleSource, error) {
	if a.cfg.OpenAI.APIKey == "" || a.store == nil {
		return nil, nil
	}

	analyzer, err := sentiment.NewAnalyzer(a.cfg.OpenAI, a.logger)
	if err != nil {
		return nil, fmt.Errorf("初始化情绪打分器失败: %w", err)
	}

	texts, err := store.NewTextStore(a.store, a.logger)
	if err != nil {
		return nil, fmt.Errorf("初始化文本存储失败: %w", err)
	}

	collector, err := sentiment.NewCollector(texts, analyzer)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

func paramsFromConfig(cfg config.StrategyConfig) indicator.Params {
	params := indicator.DefaultParams()
	if cfg.RSIPeriod > 0 {
		params.RSIPeriod = cfg.RSIPeriod
	}
	if cfg.MACDFast > 0 {
		params.MACDFast = cfg.MACDFast
	}
	if cfg.MACDSlow > 0 {
		params.MACDSlow = cfg.MACDSlow
	}
	if cfg.MACDSignal > 0 {
		params.MACDSignal = cfg.MACDSignal
	}
	if cfg.BollingerPeriod > 0 {
		params.BollingerPeriod = cfg.BollingerPeriod
	}
	if cfg.BollingerK > 0 {
		params.BollingerK = cfg.BollingerK
	}
	if cfg.SMAFast > 0 {
		params.SMAFast = cfg.SMAFast
	}
	if cfg.SMASlow > 0 {
		params.SMASlow = cfg.SMASlow
	}
	return params
}
