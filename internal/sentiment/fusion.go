package sentiment

import (
	"time"

	"stock-analyzer/internal/config"
)

// Fusion 将多源情绪样本融合为单一方向信号。
// 权重与阈值全部来自外部配置，不在调用点硬编码。
type Fusion struct {
	weights               map[Source]float64
	strongThreshold       float64
	fullConfidenceSamples float64
	now                   func() time.Time
}

// NewFusion 依据配置创建融合器。
func NewFusion(cfg config.SentimentConfig) *Fusion {
	strongThreshold := cfg.StrongThreshold
	if strongThreshold <= 0 {
		strongThreshold = 0.5
	}
	fullSamples := float64(cfg.FullConfidenceSamples)
	if fullSamples <= 0 {
		fullSamples = 10
	}

	return &Fusion{
		weights: map[Source]float64{
			SourceNews:   cfg.NewsWeight,
			SourceSocial: cfg.SocialWeight,
		},
		strongThreshold:       strongThreshold,
		fullConfidenceSamples: fullSamples,
		now:                   time.Now,
	}
}

// Classify 计算综合得分并映射为信号与强度。
// 综合得分为按来源权重与样本量置信度加权的平均值；
// 无有效样本时返回 NEUTRAL 且置信度为0。
func (f *Fusion) Classify(samples []Sample) Signal {
	var weightedSum, weightTotal float64
	totalCount := 0

	for _, sample := range samples {
		if sample.SampleCount <= 0 {
			continue
		}
		weight := f.weights[sample.Source]
		if weight <= 0 {
			continue
		}

		sourceConfidence := float64(sample.SampleCount) / f.fullConfidenceSamples
		if sourceConfidence > 1 {
			sourceConfidence = 1
		}

		effective := weight * sourceConfidence
		weightedSum += sample.Score * effective
		weightTotal += effective
		totalCount += sample.SampleCount
	}

	signal := Signal{GeneratedAt: f.now().UTC()}

	if weightTotal == 0 || totalCount == 0 {
		signal.Signal = DirectionNeutral
		signal.Strength = StrengthWeak
		return signal
	}

	score := weightedSum / weightTotal
	confidence := float64(totalCount) / f.fullConfidenceSamples
	if confidence > 1 {
		confidence = 1
	}

	signal.CompositeScore = score
	signal.Confidence = confidence

	switch {
	case score >= f.strongThreshold:
		signal.Signal = DirectionBuy
		signal.Strength = StrengthStrong
	case score > 0:
		signal.Signal = DirectionBuy
		signal.Strength = StrengthWeak
	case score <= -f.strongThreshold:
		signal.Signal = DirectionSell
		signal.Strength = StrengthStrong
	case score < 0:
		signal.Signal = DirectionSell
		signal.Strength = StrengthWeak
	default:
		signal.Signal = DirectionNeutral
		signal.Strength = StrengthWeak
	}

	return signal
}
