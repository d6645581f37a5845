package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Market    MarketConfig    `mapstructure:"market"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Backtest  BacktestConfig  `mapstructure:"backtest"`
	Strategy  StrategyConfig  `mapstructure:"strategy"`
	Sentiment SentimentConfig `mapstructure:"sentiment"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// MarketConfig 描述行情数据源连接信息。
type MarketConfig struct {
	Exchange          string             `mapstructure:"exchange"`
	Symbols           []string           `mapstructure:"symbols"`
	Timeframe         string             `mapstructure:"timeframe"`
	BarLimit          int                `mapstructure:"bar_limit"`
	BarCacheTTL       time.Duration      `mapstructure:"bar_cache_ttl"`
	SharesOutstanding map[string]float64 `mapstructure:"shares_outstanding"`
	Retry             RetryConfig        `mapstructure:"retry"`
}

// RetryConfig 统一控制重试机制。
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
}

// OpenAIConfig 描述大模型调用参数，用于情绪打分。
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BacktestConfig 管理回测参数。
type BacktestConfig struct {
	InitialCapital      float64  `mapstructure:"initial_capital"`
	CommissionRate      float64  `mapstructure:"commission_rate"`
	SlippageRate        float64  `mapstructure:"slippage_rate"`
	AnnualizationFactor float64  `mapstructure:"annualization_factor"`
	ForceCloseAtEnd     bool     `mapstructure:"force_close_at_end"`
	Strategies          []string `mapstructure:"strategies"`
}

// StrategyConfig 管理信号规则参数。
type StrategyConfig struct {
	RSIPeriod       int     `mapstructure:"rsi_period"`
	RSIOversold     float64 `mapstructure:"rsi_oversold"`
	RSIOverbought   float64 `mapstructure:"rsi_overbought"`
	MACDFast        int     `mapstructure:"macd_fast"`
	MACDSlow        int     `mapstructure:"macd_slow"`
	MACDSignal      int     `mapstructure:"macd_signal"`
	BollingerPeriod int     `mapstructure:"bollinger_period"`
	BollingerK      float64 `mapstructure:"bollinger_k"`
	SMAFast         int     `mapstructure:"sma_fast"`
	SMASlow         int     `mapstructure:"sma_slow"`
	DipDropPercent  float64 `mapstructure:"dip_drop_percent"`
	DipRisePercent  float64 `mapstructure:"dip_rise_percent"`
}

// SentimentConfig 管理情绪融合参数。
type SentimentConfig struct {
	NewsWeight            float64 `mapstructure:"news_weight"`
	SocialWeight          float64 `mapstructure:"social_weight"`
	StrongThreshold       float64 `mapstructure:"strong_threshold"`
	FullConfidenceSamples int     `mapstructure:"full_confidence_samples"`
}

// CacheConfig 控制指标缓存行为。
type CacheConfig struct {
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig 管理本地行情库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Market.Exchange == "" {
		err = multierr.Append(err, errors.New("market.exchange 不能为空"))
	}
	if len(c.Market.Symbols) == 0 {
		err = multierr.Append(err, errors.New("market.symbols 至少包含一个标的"))
	}
	if c.Market.Timeframe == "" {
		err = multierr.Append(err, errors.New("market.timeframe 不能为空"))
	}
	if c.Market.BarLimit <= 0 {
		err = multierr.Append(err, errors.New("market.bar_limit 必须大于0"))
	}
	if c.Market.Retry.MaxAttempts <= 0 {
		err = multierr.Append(err, errors.New("market.retry.max_attempts 必须大于0"))
	}
	if c.Market.Retry.MinDelay <= 0 || c.Market.Retry.MaxDelay <= 0 {
		err = multierr.Append(err, errors.New("market.retry.delay 必须为正"))
	}
	if c.Market.Retry.MinDelay > c.Market.Retry.MaxDelay {
		err = multierr.Append(err, errors.New("market.retry.min_delay 不能大于 max_delay"))
	}
	if c.Market.BarCacheTTL <= 0 {
		err = multierr.Append(err, errors.New("market.bar_cache_ttl 必须大于0"))
	}
	if c.Backtest.InitialCapital <= 0 {
		err = multierr.Append(err, errors.New("backtest.initial_capital 必须大于0"))
	}
	if c.Backtest.CommissionRate < 0 || c.Backtest.CommissionRate > 0.1 {
		err = multierr.Append(err, errors.New("backtest.commission_rate 应位于[0,0.1]"))
	}
	if c.Backtest.SlippageRate < 0 || c.Backtest.SlippageRate > 0.1 {
		err = multierr.Append(err, errors.New("backtest.slippage_rate 应位于[0,0.1]"))
	}
	if c.Backtest.AnnualizationFactor <= 0 {
		err = multierr.Append(err, errors.New("backtest.annualization_factor 必须大于0"))
	}
	if len(c.Backtest.Strategies) == 0 {
		err = multierr.Append(err, errors.New("backtest.strategies 至少包含一个策略"))
	}
	if c.Strategy.RSIPeriod <= 1 {
		err = multierr.Append(err, errors.New("strategy.rsi_period 必须大于1"))
	}
	if c.Strategy.RSIOversold <= 0 || c.Strategy.RSIOverbought >= 100 {
		err = multierr.Append(err, errors.New("strategy.rsi 阈值必须位于(0,100)"))
	}
	if c.Strategy.RSIOversold >= c.Strategy.RSIOverbought {
		err = multierr.Append(err, errors.New("strategy.rsi_oversold 必须小于 rsi_overbought"))
	}
	if c.Strategy.MACDFast <= 0 || c.Strategy.MACDSlow <= 0 || c.Strategy.MACDSignal <= 0 {
		err = multierr.Append(err, errors.New("strategy.macd 周期必须为正"))
	}
	if c.Strategy.MACDFast >= c.Strategy.MACDSlow {
		err = multierr.Append(err, errors.New("strategy.macd_fast 必须小于 macd_slow"))
	}
	if c.Strategy.BollingerPeriod <= 1 {
		err = multierr.Append(err, errors.New("strategy.bollinger_period 必须大于1"))
	}
	if c.Strategy.BollingerK <= 0 {
		err = multierr.Append(err, errors.New("strategy.bollinger_k 必须大于0"))
	}
	if c.Strategy.SMAFast <= 0 || c.Strategy.SMASlow <= 0 {
		err = multierr.Append(err, errors.New("strategy.sma 周期必须为正"))
	}
	if c.Strategy.SMAFast >= c.Strategy.SMASlow {
		err = multierr.Append(err, errors.New("strategy.sma_fast 必须小于 sma_slow"))
	}
	if c.Strategy.DipDropPercent <= 0 || c.Strategy.DipDropPercent >= 1 {
		err = multierr.Append(err, errors.New("strategy.dip_drop_percent 必须位于(0,1)"))
	}
	if c.Strategy.DipRisePercent <= 0 || c.Strategy.DipRisePercent >= 1 {
		err = multierr.Append(err, errors.New("strategy.dip_rise_percent 必须位于(0,1)"))
	}
	if c.Sentiment.NewsWeight < 0 || c.Sentiment.SocialWeight < 0 {
		err = multierr.Append(err, errors.New("sentiment 权重不能为负"))
	}
	if c.Sentiment.NewsWeight+c.Sentiment.SocialWeight <= 0 {
		err = multierr.Append(err, errors.New("sentiment 权重之和必须大于0"))
	}
	if c.Sentiment.StrongThreshold <= 0 || c.Sentiment.StrongThreshold > 1 {
		err = multierr.Append(err, errors.New("sentiment.strong_threshold 必须位于(0,1]"))
	}
	if c.Sentiment.FullConfidenceSamples <= 0 {
		err = multierr.Append(err, errors.New("sentiment.full_confidence_samples 必须大于0"))
	}
	if c.Cache.MaxEntries <= 0 {
		err = multierr.Append(err, errors.New("cache.max_entries 必须大于0"))
	}
	if c.Cache.TTL <= 0 {
		err = multierr.Append(err, errors.New("cache.ttl 必须大于0"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
