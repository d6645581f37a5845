package backtest

import "math"

// calculatePerformance 依据净值曲线、收益序列与成交记录计算绩效指标。
// 无成交时胜率取0而非NaN；收益方差为0时夏普比率取0。
func calculatePerformance(initialCapital float64, equity, returns []float64, trades []Trade, annualization float64) Performance {
	finalValue := initialCapital
	if len(equity) > 0 {
		finalValue = equity[len(equity)-1]
	}

	totalReturn := 0.0
	if initialCapital > 0 {
		totalReturn = (finalValue - initialCapital) / initialCapital
	}

	winRate := 0.0
	if len(trades) > 0 {
		wins := 0
		for _, trade := range trades {
			if trade.Profit > 0 {
				wins++
			}
		}
		winRate = float64(wins) / float64(len(trades))
	}

	return Performance{
		FinalValue:  finalValue,
		TotalReturn: totalReturn,
		WinRate:     winRate,
		MaxDrawdown: computeDrawdown(equity),
		SharpeRatio: computeSharpe(returns, annualization),
	}
}

// computeDrawdown 以运行峰值计算最大回撤，返回非负比例。
func computeDrawdown(equity []float64) float64 {
	var peak float64
	maxDD := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - v) / peak
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// computeSharpe 计算年化夏普比率，年化系数由调用方配置。
func computeSharpe(returns []float64, annualization float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	if len(returns) > 1 {
		variance /= float64(len(returns) - 1)
	}

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}

	if annualization <= 0 {
		annualization = 252
	}
	return (mean / std) * math.Sqrt(annualization)
}
