package backtest

import "time"

// Config 定义单次回测的参数。
type Config struct {
	Symbol              string    // 标的名称
	Strategy            string    // 策略名称
	Start               time.Time // 起始日期（含）
	End                 time.Time // 结束日期（含）
	InitialCapital      float64   // 初始资金
	CommissionRate      float64   // 单边手续费率
	SlippageRate        float64   // 成交滑点率
	AnnualizationFactor float64   // 夏普比率年化系数（日线为252）
	ForceCloseAtEnd     bool      // 序列结束仍持仓时按末根收盘强制平仓
}

func (c *Config) normalize() Config {
	cfg := *c
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = 10000
	}
	if cfg.AnnualizationFactor <= 0 {
		cfg.AnnualizationFactor = 252
	}
	if cfg.CommissionRate < 0 {
		cfg.CommissionRate = 0
	}
	if cfg.SlippageRate < 0 {
		cfg.SlippageRate = 0
	}
	return cfg
}
