package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stock-analyzer/internal/config"
)

// BarSource 抽象K线来源，便于在测试中注入固定数据。
type BarSource interface {
	FetchBars(ctx context.Context, symbol string, limit int64) ([]Bar, error)
}

// BarStore 抽象本地K线缓存。
type BarStore interface {
	LoadBars(ctx context.Context, symbol string, maxAge time.Duration) ([]Bar, bool, error)
	SaveBars(ctx context.Context, symbol string, bars []Bar) error
}

// Service 聚合行情获取与本地缓存，向引擎提供已物化的序列。
type Service struct {
	cfg    config.MarketConfig
	source BarSource
	store  BarStore
	logger *zap.Logger
}

// NewService 创建行情服务；store 可为 nil，此时每次都走数据源。
func NewService(cfg config.MarketConfig, source BarSource, store BarStore, logger *zap.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("market: source 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		source: source,
		store:  store,
		logger: logger,
	}, nil
}

// History 返回指定标的的行情序列，优先命中本地缓存。
func (s *Service) History(ctx context.Context, symbol string) (History, error) {
	if s.store != nil {
		bars, ok, err := s.store.LoadBars(ctx, symbol, s.cfg.BarCacheTTL)
		if err != nil {
			s.logger.Warn("读取本地行情缓存失败", zap.String("symbol", symbol), zap.Error(err))
		} else if ok {
			return NewHistory(symbol, bars)
		}
	}

	bars, err := s.source.FetchBars(ctx, symbol, int64(s.cfg.BarLimit))
	if err != nil {
		return History{}, fmt.Errorf("market: 获取 %s 行情失败: %w", symbol, err)
	}

	history, err := NewHistory(symbol, bars)
	if err != nil {
		return History{}, err
	}

	if s.store != nil {
		if err := s.store.SaveBars(ctx, symbol, bars); err != nil {
			s.logger.Warn("写入本地行情缓存失败", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	return history, nil
}

// Histories 并行拉取多个标的的行情序列。
func (s *Service) Histories(ctx context.Context, symbols []string) (map[string]History, error) {
	var mu sync.Mutex
	result := make(map[string]History, len(symbols))

	group, groupCtx := errgroup.WithContext(ctx)
	for _, symbol := range symbols {
		group.Go(func() error {
			history, err := s.History(groupCtx, symbol)
			if err != nil {
				return err
			}
			mu.Lock()
			result[symbol] = history
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// Snapshot 返回行情序列及据其推导的报价。
func (s *Service) Snapshot(ctx context.Context, symbol string) (Snapshot, error) {
	history, err := s.History(ctx, symbol)
	if err != nil {
		return Snapshot{}, err
	}

	quote := QuoteFromHistory(history, s.cfg.SharesOutstanding[symbol])

	return Snapshot{
		History:     history,
		Quote:       quote,
		RetrievedAt: time.Now().UTC(),
	}, nil
}

// QuoteFromHistory 由行情序列推导报价；shares 为0时市值视为不可用。
func QuoteFromHistory(history History, shares float64) Quote {
	last := history.Last()

	changePercent := 0.0
	if history.Len() >= 2 {
		prev := history.Bar(history.Len() - 2).Close
		if prev != 0 {
			changePercent = (last.Close - prev) / prev * 100
		}
	}

	var marketCap *float64
	if shares > 0 {
		value := shares * last.Close
		marketCap = &value
	}

	return Quote{
		Symbol:        history.Symbol(),
		CurrentPrice:  last.Close,
		ChangePercent: changePercent,
		MarketCap:     marketCap,
		RetrievedAt:   last.Date,
	}
}
