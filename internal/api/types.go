package api

import "time"

// BacktestRequest 描述一次回测请求，日期为 YYYY-MM-DD，可留空表示全序列。
type BacktestRequest struct {
	Symbol    string  `json:"symbol"`
	Strategy  string  `json:"strategy"`
	StartDate string  `json:"startDate,omitempty"`
	EndDate   string  `json:"endDate,omitempty"`
	Capital   float64 `json:"capital,omitempty"`
}

// TradeRow 为账本视角的单边成交记录，一次完整交易展开为买卖两行。
type TradeRow struct {
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Profit   float64 `json:"profit"`
}

// PerformanceView 为对外暴露的绩效字段。
type PerformanceView struct {
	FinalValue  float64 `json:"final_value"`
	TotalReturn float64 `json:"total_return"`
	WinRate     float64 `json:"win_rate"`
	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// BacktestResponse 为回测结果的展示层形态。
type BacktestResponse struct {
	Symbol      string          `json:"symbol"`
	Strategy    string          `json:"strategy"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Capital     float64         `json:"capital"`
	Performance PerformanceView `json:"performance"`
	Trades      []TradeRow      `json:"trades"`
}

// BollingerView 为布林带三条轨道，未定义时整体为 null。
type BollingerView struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// IndicatorSnapshot 为单个标的的最新行情与指标视图。
// 处于预热期的指标输出 null，绝不回退为默认数值。
type IndicatorSnapshot struct {
	Symbol         string         `json:"symbol"`
	CurrentPrice   float64        `json:"current_price"`
	ChangePercent  float64        `json:"change_percent"`
	MarketCap      *float64       `json:"market_cap"`
	RSI            *float64       `json:"rsi"`
	MACD           *float64       `json:"macd"`
	BollingerBands *BollingerView `json:"bollinger_bands"`
}

// NewsData 汇总新闻侧的样本统计。
type NewsData struct {
	ArticleCount   int     `json:"article_count"`
	SentimentScore float64 `json:"sentiment_score"`
}

// SocialData 汇总社交媒体侧的样本统计。
type SocialData struct {
	TweetCount      int     `json:"tweet_count"`
	SocialSentiment float64 `json:"social_sentiment"`
}

// SentimentSnapshot 为融合后的情绪视图。
type SentimentSnapshot struct {
	Symbol         string     `json:"symbol"`
	SentimentScore float64    `json:"sentiment_score"`
	Confidence     float64    `json:"confidence"`
	Signal         string     `json:"signal"`
	Strength       string     `json:"strength"`
	Timestamp      time.Time  `json:"timestamp"`
	NewsData       NewsData   `json:"news_data"`
	SocialData     SocialData `json:"social_data"`
}
