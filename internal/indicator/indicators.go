package indicator

import (
	talib "github.com/markcheno/go-talib"
)

// RSI 计算相对强弱指标，采用 Wilder 平滑，输出位于[0,100]。
// 前 period 个位置因历史不足标记为未定义。
func RSI(close []float64, period int) []float64 {
	if period <= 0 || len(close) <= period {
		return undefinedSeries(len(close))
	}
	values := talib.Rsi(copySeries(close), period)
	return maskWarmUp(values, period)
}

// SMA 计算简单移动平均，前 period-1 个位置未定义。
func SMA(close []float64, period int) []float64 {
	if period <= 0 || len(close) < period {
		return undefinedSeries(len(close))
	}
	values := talib.Sma(copySeries(close), period)
	return maskWarmUp(values, period-1)
}

// EMA 计算指数移动平均，平滑系数 2/(n+1)，以前 n 个值的简单均值作为种子。
func EMA(close []float64, period int) []float64 {
	if period <= 0 || len(close) < period {
		return undefinedSeries(len(close))
	}
	values := talib.Ema(copySeries(close), period)
	return maskWarmUp(values, period-1)
}

// MACD 计算 MACD 线、信号线与柱状图。
// MACD 线自 slow-1 起有效；信号线与柱状图自 slow+signal-2 起有效。
func MACD(close []float64, fast, slow, signal int) (macdLine, signalLine, histogram []float64) {
	length := len(close)
	macdLine = undefinedSeries(length)
	signalLine = undefinedSeries(length)
	histogram = undefinedSeries(length)

	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow {
		return macdLine, signalLine, histogram
	}
	if length < slow {
		return macdLine, signalLine, histogram
	}

	fastEMA := EMA(close, fast)
	slowEMA := EMA(close, slow)

	macdStart := slow - 1
	for i := macdStart; i < length; i++ {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	// 仅在 MACD 线已定义的区段上计算信号线。
	defined := macdLine[macdStart:]
	if len(defined) >= signal {
		signalPart := talib.Ema(copySeries(defined), signal)
		for i := signal - 1; i < len(signalPart); i++ {
			signalLine[macdStart+i] = signalPart[i]
			histogram[macdStart+i] = macdLine[macdStart+i] - signalPart[i]
		}
	}

	return macdLine, signalLine, histogram
}

// BollingerBands 计算布林带：中轨为 SMA，上下轨为中轨 ± k·总体标准差。
// 前 period-1 个位置未定义。
func BollingerBands(close []float64, period int, k float64) (upper, middle, lower []float64) {
	length := len(close)
	if period <= 1 || k <= 0 || length < period {
		return undefinedSeries(length), undefinedSeries(length), undefinedSeries(length)
	}

	up, mid, low := talib.BBands(copySeries(close), period, k, k, talib.SMA)
	warmUp := period - 1
	return maskWarmUp(up, warmUp), maskWarmUp(mid, warmUp), maskWarmUp(low, warmUp)
}

// copySeries 复制输入序列，保证指标计算不会篡改调用方数据。
func copySeries(values []float64) []float64 {
	dst := make([]float64, len(values))
	copy(dst, values)
	return dst
}
