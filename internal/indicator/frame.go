package indicator

import (
	"time"
)

// Params 汇总指标计算所需的窗口参数。
type Params struct {
	RSIPeriod       int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BollingerPeriod int
	BollingerK      float64
	SMAFast         int
	SMASlow         int
}

// DefaultParams 返回常用的指标参数组合。
func DefaultParams() Params {
	return Params{
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerK:      2,
		SMAFast:         10,
		SMASlow:         30,
	}
}

// Frame 保存与行情序列逐位对齐的指标序列，未定义位置为 NaN。
type Frame struct {
	Dates      []time.Time
	Close      []float64
	RSI        []float64
	MACDLine   []float64
	MACDSignal []float64
	MACDHist   []float64
	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
	SMAFast    []float64
	SMASlow    []float64
}

// Len 返回指标序列长度。
func (f *Frame) Len() int {
	return len(f.Close)
}

// ComputeFrame 依据收盘价序列计算全部指标，输入不会被修改。
func ComputeFrame(dates []time.Time, close []float64, params Params) *Frame {
	macdLine, macdSignal, macdHist := MACD(close, params.MACDFast, params.MACDSlow, params.MACDSignal)
	bbUpper, bbMiddle, bbLower := BollingerBands(close, params.BollingerPeriod, params.BollingerK)

	return &Frame{
		Dates:      dates,
		Close:      copySeries(close),
		RSI:        RSI(close, params.RSIPeriod),
		MACDLine:   macdLine,
		MACDSignal: macdSignal,
		MACDHist:   macdHist,
		BBUpper:    bbUpper,
		BBMiddle:   bbMiddle,
		BBLower:    bbLower,
		SMAFast:    SMA(close, params.SMAFast),
		SMASlow:    SMA(close, params.SMASlow),
	}
}
