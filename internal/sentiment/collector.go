package sentiment

import (
	"context"
	"fmt"
)

// TextSource 提供已入库的原始文本，文本的采集由外部任务负责写入。
type TextSource interface {
	Texts(ctx context.Context, symbol string, source Source) ([]string, error)
}

// Scorer 将一批同源文本评为情绪样本。
type Scorer interface {
	Score(ctx context.Context, symbol string, source Source, texts []string) (Sample, error)
}

// Collector 组合文本源与打分器，为展示层供应逐来源的情绪样本。
type Collector struct {
	texts  TextSource
	scorer Scorer
}

// NewCollector 创建情绪样本采集器。
func NewCollector(texts TextSource, scorer Scorer) (*Collector, error) {
	if texts == nil {
		return nil, fmt.Errorf("sentiment: texts 不能为空")
	}
	if scorer == nil {
		return nil, fmt.Errorf("sentiment: scorer 不能为空")
	}
	return &Collector{texts: texts, scorer: scorer}, nil
}

// Samples 依次对新闻与社交媒体文本打分；某来源无文本时直接跳过。
func (c *Collector) Samples(ctx context.Context, symbol string) ([]Sample, error) {
	samples := make([]Sample, 0, 2)

	for _, source := range []Source{SourceNews, SourceSocial} {
		texts, err := c.texts.Texts(ctx, symbol, source)
		if err != nil {
			return nil, fmt.Errorf("sentiment: 读取 %s 文本失败: %w", source, err)
		}
		if len(texts) == 0 {
			continue
		}

		sample, err := c.scorer.Score(ctx, symbol, source, texts)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, nil
}
