package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-analyzer/internal/config"
)

func newStubOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4.1",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}))
}

func newStubAnalyzer(t *testing.T, server *httptest.Server) *Analyzer {
	t.Helper()
	analyzer, err := NewAnalyzer(config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4.1",
		Timeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("NewAnalyzer returned error: %v", err)
	}
	return analyzer
}

func TestAnalyzerScore_ParsesModelOutput(t *testing.T) {
	server := newStubOpenAI(t, "分析结果：\n{\"score\": 0.6}")
	defer server.Close()

	analyzer := newStubAnalyzer(t, server)

	sample, err := analyzer.Score(context.Background(), "AAPL", SourceNews, []string{"strong earnings", "raised guidance"})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}

	if sample.Source != SourceNews {
		t.Errorf("expected news source, got %s", sample.Source)
	}
	if sample.Score != 0.6 {
		t.Errorf("expected score 0.6, got %f", sample.Score)
	}
	if sample.SampleCount != 2 {
		t.Errorf("expected sample count 2, got %d", sample.SampleCount)
	}
	if sample.Timestamp.IsZero() {
		t.Errorf("expected timestamp set")
	}
}

func TestAnalyzerScore_ClampsOutOfRangeScore(t *testing.T) {
	server := newStubOpenAI(t, `{"score": 3.4}`)
	defer server.Close()

	analyzer := newStubAnalyzer(t, server)

	sample, err := analyzer.Score(context.Background(), "AAPL", SourceSocial, []string{"to the moon"})
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if sample.Score != 1 {
		t.Errorf("expected score clamped to 1, got %f", sample.Score)
	}
}

func TestAnalyzerScore_EmptyTextsSkipCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("expected no HTTP call for empty texts")
	}))
	defer server.Close()

	analyzer := newStubAnalyzer(t, server)

	sample, err := analyzer.Score(context.Background(), "AAPL", SourceNews, nil)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if sample.SampleCount != 0 || sample.Score != 0 {
		t.Errorf("expected zero sample for empty texts, got %+v", sample)
	}
}

func TestAnalyzerScore_MalformedModelOutput(t *testing.T) {
	server := newStubOpenAI(t, "模型没有遵循格式")
	defer server.Close()

	analyzer := newStubAnalyzer(t, server)

	if _, err := analyzer.Score(context.Background(), "AAPL", SourceNews, []string{"headline"}); err == nil {
		t.Fatalf("expected error for unparsable model output")
	}
}

func TestParseScore_PlainJSON(t *testing.T) {
	score, err := parseScore(`{"score": 0.35}`)
	if err != nil {
		t.Fatalf("parseScore returned error: %v", err)
	}
	if score != 0.35 {
		t.Errorf("expected 0.35, got %f", score)
	}
}

func TestParseScore_JSONWrappedInProse(t *testing.T) {
	content := "根据分析，结果如下：\n```json\n{\"score\": -0.6}\n```\n以上。"
	score, err := parseScore(content)
	if err != nil {
		t.Fatalf("parseScore returned error: %v", err)
	}
	if score != -0.6 {
		t.Errorf("expected -0.6, got %f", score)
	}
}

func TestParseScore_NoJSON(t *testing.T) {
	_, err := parseScore("完全没有结构化输出")
	if err == nil {
		t.Fatalf("expected error for content without JSON")
	}
	if !strings.Contains(err.Error(), "JSON") {
		t.Errorf("expected JSON extraction error, got %v", err)
	}
}

func TestClampScore(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{2.5, 1},
		{-3, -1},
		{0.4, 0.4},
	}
	for _, tc := range cases {
		if got := clampScore(tc.in); got != tc.want {
			t.Errorf("clampScore(%f): expected %f, got %f", tc.in, tc.want, got)
		}
	}
}
