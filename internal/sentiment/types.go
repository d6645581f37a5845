package sentiment

import "time"

// Source 表示情绪样本来源。
type Source string

const (
	SourceNews   Source = "news"
	SourceSocial Source = "social"
)

// Sample 为单一来源的情绪样本，Score 位于[-1,1]，
// SampleCount 为该来源聚合的原始条目数量。
type Sample struct {
	Source      Source    `json:"source"`
	Score       float64   `json:"score"`
	SampleCount int       `json:"sample_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// Direction 表示情绪信号方向。
type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionNeutral Direction = "NEUTRAL"
)

// Strength 表示信号强度。
type Strength string

const (
	StrengthWeak   Strength = "WEAK"
	StrengthStrong Strength = "STRONG"
)

// Signal 为多源融合后的情绪信号。
type Signal struct {
	CompositeScore float64   `json:"composite_score"`
	Confidence     float64   `json:"confidence"`
	Signal         Direction `json:"signal"`
	Strength       Strength  `json:"strength"`
	GeneratedAt    time.Time `json:"generated_at"`
}
