package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stock-analyzer/internal/sentiment"
)

// 单次打分最多读取的文本条数，避免提示词无限膨胀。
const maxTextsPerSource = 50

// TextStore 保存外部采集任务写入的原始文本，供情绪打分读取。
type TextStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTextStore 初始化文本存储，创建所需表结构。
func NewTextStore(store *Store, logger *zap.Logger) (*TextStore, error) {
	if store == nil {
		return nil, fmt.Errorf("store: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &TextStore{
		db:     store.DB(),
		logger: logger,
	}

	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *TextStore) initSchema() error {
	stmt := `
CREATE TABLE IF NOT EXISTS sentiment_texts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol TEXT NOT NULL,
	source TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sentiment_texts_lookup ON sentiment_texts (symbol, source, id);
`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("store: 初始化文本表失败: %w", err)
	}
	return nil
}

// SaveTexts 追加写入一批同源文本。
func (s *TextStore) SaveTexts(ctx context.Context, symbol string, source sentiment.Source, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: 开启事务失败: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO sentiment_texts (symbol, source, content, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: 预编译插入失败: %w", err)
	}
	defer func() {
		_ = insert.Close()
	}()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, text := range texts {
		if text == "" {
			continue
		}
		if _, err := insert.ExecContext(ctx, symbol, string(source), text, now); err != nil {
			return fmt.Errorf("store: 写入文本失败: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: 提交事务失败: %w", err)
	}

	s.logger.Debug("情绪文本已入库",
		zap.String("symbol", symbol),
		zap.String("source", string(source)),
		zap.Int("texts", len(texts)),
	)

	return nil
}

// Texts 按写入顺序读取某标的某来源的最新文本。
func (s *TextStore) Texts(ctx context.Context, symbol string, source sentiment.Source) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM (
			SELECT id, content FROM sentiment_texts
			WHERE symbol = ? AND source = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		symbol, string(source), maxTextsPerSource)
	if err != nil {
		return nil, fmt.Errorf("store: 查询文本失败: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var texts []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("store: 读取文本失败: %w", err)
		}
		texts = append(texts, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: 遍历文本失败: %w", err)
	}

	return texts, nil
}

// PurgeTexts 删除某标的的全部文本。
func (s *TextStore) PurgeTexts(ctx context.Context, symbol string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sentiment_texts WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("store: 删除文本失败: %w", err)
	}
	return nil
}
