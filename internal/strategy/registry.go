package strategy

import (
	"errors"
	"fmt"
	"sort"

	"stock-analyzer/internal/config"
	"stock-analyzer/internal/indicator"
)

// ErrUnknownStrategy 表示策略名称未注册。
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy 为信号规则实现。实现方在第 i 根K线上只能读取下标 ≤ i 的
// 指标与价格（禁止前视），指标未定义时必须返回 Hold。
// 每次回测通过工厂获得全新实例，允许实现持有运行期状态。
type Strategy interface {
	Name() string
	Next(i int, frame *indicator.Frame) Kind
}

// Factory 创建策略实例。
type Factory func() Strategy

// Registry 维护策略名称到工厂的映射，启动时完成校验。
type Registry struct {
	factories map[string]Factory
}

// NewRegistry 创建空注册表。
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register 注册策略工厂，重名或空名直接报错。
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("strategy: 策略名称不能为空")
	}
	if factory == nil {
		return fmt.Errorf("strategy: 策略 %q 的工厂不能为空", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("strategy: 策略 %q 重复注册", name)
	}
	r.factories[name] = factory
	return nil
}

// New 按名称创建全新策略实例，未注册时返回 ErrUnknownStrategy。
func (r *Registry) New(name string) (Strategy, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("strategy: %w: %q", ErrUnknownStrategy, name)
	}
	return factory(), nil
}

// Has 判断策略是否已注册。
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names 返回全部已注册策略名称，按字典序排列。
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDefaultRegistry 注册内置策略族。
func NewDefaultRegistry(cfg config.StrategyConfig) (*Registry, error) {
	r := NewRegistry()

	builtins := map[string]Factory{
		"rsi_reversion":       func() Strategy { return NewRSIReversion(cfg.RSIOversold, cfg.RSIOverbought) },
		"macd_crossover":      func() Strategy { return NewMACDCrossover() },
		"sma_crossover":       func() Strategy { return NewSMACrossover() },
		"bollinger_reversion": func() Strategy { return NewBollingerReversion() },
		"dip_rebound":         func() Strategy { return NewDipRebound(cfg.DipDropPercent, cfg.DipRisePercent) },
		"buy_hold":            func() Strategy { return NewBuyHold() },
	}

	for name, factory := range builtins {
		if err := r.Register(name, factory); err != nil {
			return nil, err
		}
	}

	return r, nil
}
