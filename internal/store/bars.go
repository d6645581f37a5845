package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stock-analyzer/internal/market"
)

// BarCache 将已获取的K线落盘，避免重复拉取历史数据。
type BarCache struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBarCache 初始化K线缓存，创建所需表结构。
func NewBarCache(store *Store, logger *zap.Logger) (*BarCache, error) {
	if store == nil {
		return nil, fmt.Errorf("store: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &BarCache{
		db:     store.DB(),
		logger: logger,
	}

	if err := c.initSchema(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *BarCache) initSchema() error {
	stmt := `
CREATE TABLE IF NOT EXISTS price_bars (
	symbol TEXT NOT NULL,
	bar_date TEXT NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	PRIMARY KEY (symbol, bar_date)
);
CREATE TABLE IF NOT EXISTS bar_fetches (
	symbol TEXT PRIMARY KEY,
	fetched_at TEXT NOT NULL
);
`
	if _, err := c.db.Exec(stmt); err != nil {
		return fmt.Errorf("store: 初始化表失败: %w", err)
	}
	return nil
}

// SaveBars 覆盖写入某标的的全部K线并更新拉取时间。
func (c *BarCache) SaveBars(ctx context.Context, symbol string, bars []market.Bar) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: 开启事务失败: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_bars WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("store: 清理旧K线失败: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO price_bars (symbol, bar_date, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: 预编译插入失败: %w", err)
	}
	defer func() {
		_ = insert.Close()
	}()

	for _, bar := range bars {
		if _, err := insert.ExecContext(ctx,
			symbol, bar.Date.UTC().Format(time.RFC3339),
			bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		); err != nil {
			return fmt.Errorf("store: 写入K线失败: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bar_fetches (symbol, fetched_at) VALUES (?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET fetched_at = excluded.fetched_at`,
		symbol, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("store: 更新拉取时间失败: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: 提交事务失败: %w", err)
	}

	c.logger.Debug("本地K线缓存已更新",
		zap.String("symbol", symbol),
		zap.Int("bars", len(bars)),
	)

	return nil
}

// LoadBars 读取某标的的K线；超过 maxAge 视为过期返回未命中。
func (c *BarCache) LoadBars(ctx context.Context, symbol string, maxAge time.Duration) ([]market.Bar, bool, error) {
	var fetchedAt string
	err := c.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM bar_fetches WHERE symbol = ?`, symbol,
	).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: 查询拉取时间失败: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, false, fmt.Errorf("store: 解析拉取时间失败: %w", err)
	}
	if maxAge > 0 && time.Since(ts) > maxAge {
		return nil, false, nil
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT bar_date, open, high, low, close, volume
		 FROM price_bars WHERE symbol = ? ORDER BY bar_date ASC`, symbol)
	if err != nil {
		return nil, false, fmt.Errorf("store: 查询K线失败: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var bars []market.Bar
	for rows.Next() {
		var dateStr string
		var bar market.Bar
		if err := rows.Scan(&dateStr, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, false, fmt.Errorf("store: 读取K线失败: %w", err)
		}
		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, false, fmt.Errorf("store: 解析K线日期失败: %w", err)
		}
		bar.Date = date
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("store: 遍历K线失败: %w", err)
	}

	if len(bars) == 0 {
		return nil, false, nil
	}

	return bars, true, nil
}

// Invalidate 删除某标的的本地缓存。
func (c *BarCache) Invalidate(ctx context.Context, symbol string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM price_bars WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("store: 删除K线失败: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM bar_fetches WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("store: 删除拉取记录失败: %w", err)
	}
	return nil
}
