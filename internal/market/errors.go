package market

import (
	"context"
	"errors"
	"net"

	ccxt "github.com/ccxt/ccxt/go/v4"
)

var (
	// ErrEmptyHistory 表示输入行情序列为空。
	ErrEmptyHistory = errors.New("empty price history")
	// ErrUnorderedHistory 表示行情日期未严格递增或存在重复。
	ErrUnorderedHistory = errors.New("price history not strictly ordered")
	// ErrInvalidDateRange 表示请求区间非法或超出可用数据。
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrMaintenance 表示数据源处于维护状态，需要上层跳过本轮拉取。
	ErrMaintenance = errors.New("market data source on maintenance")
)

// IsRetryable 判断错误是否可重试。上下文取消与业务类错误不重试，
// 网络抖动与限流类错误重试。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var ccxtErr *ccxt.Error
	if errors.As(err, &ccxtErr) {
		switch ccxtErr.Type {
		case ccxt.NetworkErrorErrType,
			ccxt.RequestTimeoutErrType,
			ccxt.ExchangeNotAvailableErrType,
			ccxt.RateLimitExceededErrType,
			ccxt.DDoSProtectionErrType,
			ccxt.BadResponseErrType,
			ccxt.NullResponseErrType:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
