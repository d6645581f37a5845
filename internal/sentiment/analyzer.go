package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"stock-analyzer/internal/config"
)

const scoreTemplate = `
你是一个专业的金融情绪分析师。请阅读以下关于 {{ .Symbol }} 的{{ .SourceLabel }}内容，
评估其对该股票短期走势的整体情绪倾向。

内容列表：
{{ range $i, $text := .Texts }}{{ $i }}. {{ $text }}
{{ end }}

请严格输出唯一的 JSON 对象，格式如下：
{
  "score": -1.0-1.0   // 整体情绪得分，-1 极度悲观，0 中性，1 极度乐观
}
`

type scoreResponse struct {
	Score float64 `json:"score"`
}

// Analyzer 调用大模型将已获取的文本打分为情绪样本。
// 文本的采集由外部数据适配层负责。
type Analyzer struct {
	cfg    config.OpenAIConfig
	logger *zap.Logger
	sdk    *openai.Client
	tmpl   *template.Template
}

// NewAnalyzer 使用给定配置创建情绪打分器。
func NewAnalyzer(cfg config.OpenAIConfig, logger *zap.Logger) (*Analyzer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api_key 不能为空")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: cfg.Timeout + 5*time.Second,
	}

	tmpl, err := template.New("score").Parse(scoreTemplate)
	if err != nil {
		return nil, fmt.Errorf("解析情绪提示词模板失败: %w", err)
	}

	return &Analyzer{
		cfg:    cfg,
		logger: logger,
		sdk:    openai.NewClientWithConfig(clientConfig),
		tmpl:   tmpl,
	}, nil
}

// Score 对一批同源文本打分并聚合为单个样本。
// 文本为空时返回零分零样本，交由融合层按 NEUTRAL 处理。
func (a *Analyzer) Score(ctx context.Context, symbol string, source Source, texts []string) (Sample, error) {
	sample := Sample{
		Source:    source,
		Timestamp: time.Now().UTC(),
	}

	if len(texts) == 0 {
		return sample, nil
	}

	if a.cfg.Model == "" {
		return Sample{}, errors.New("openai model 不能为空")
	}

	prompt, err := a.buildPrompt(symbol, source, texts)
	if err != nil {
		return Sample{}, err
	}

	response, err := a.sdk.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0,
	})
	if err != nil {
		a.logger.Error("调用OpenAI失败", zap.Error(err))
		return Sample{}, fmt.Errorf("调用OpenAI失败: %w", err)
	}

	if len(response.Choices) == 0 {
		return Sample{}, errors.New("OpenAI 返回结果为空")
	}

	rawContent := strings.TrimSpace(response.Choices[0].Message.Content)
	if rawContent == "" {
		return Sample{}, errors.New("OpenAI 返回内容为空")
	}

	score, err := parseScore(rawContent)
	if err != nil {
		a.logger.Error("解析情绪得分失败",
			zap.Error(err),
			zap.String("raw_content", rawContent),
		)
		return Sample{}, err
	}

	sample.Score = clampScore(score)
	sample.SampleCount = len(texts)

	a.logger.Info("情绪打分完成",
		zap.String("symbol", symbol),
		zap.String("source", string(source)),
		zap.Int("texts", len(texts)),
		zap.Float64("score", sample.Score),
	)

	return sample, nil
}

func (a *Analyzer) buildPrompt(symbol string, source Source, texts []string) (string, error) {
	label := "新闻"
	if source == SourceSocial {
		label = "社交媒体"
	}

	var buf bytes.Buffer
	err := a.tmpl.Execute(&buf, struct {
		Symbol      string
		SourceLabel string
		Texts       []string
	}{
		Symbol:      symbol,
		SourceLabel: label,
		Texts:       texts,
	})
	if err != nil {
		return "", fmt.Errorf("渲染情绪提示词失败: %w", err)
	}

	return buf.String(), nil
}

func parseScore(content string) (float64, error) {
	payload, err := extractJSON(content)
	if err != nil {
		return 0, err
	}

	var parsed scoreResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return 0, fmt.Errorf("解析情绪JSON失败: %w", err)
	}

	return parsed.Score, nil
}

func extractJSON(content string) ([]byte, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("模型输出未找到有效JSON: %s", content)
	}

	return []byte(content[start : end+1]), nil
}

func clampScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
