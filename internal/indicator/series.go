package indicator

import (
	"math"
)

// Last 返回序列最后一个值，若为空则返回 NaN。
func Last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// Defined 判断指标值在该位置是否已定义（预热期内为 NaN）。
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

func undefinedSeries(length int) []float64 {
	values := make([]float64, length)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}

// maskWarmUp 将前 warmUp 个位置标记为未定义。
func maskWarmUp(values []float64, warmUp int) []float64 {
	if warmUp > len(values) {
		warmUp = len(values)
	}
	for i := 0; i < warmUp; i++ {
		values[i] = math.NaN()
	}
	return values
}
