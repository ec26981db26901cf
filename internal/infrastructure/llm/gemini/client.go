package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/infrastructure/resilience"
)

// Client is a DocumentAnalyzer backed by the Gemini generateContent
// REST API. Calls are rate limited and guarded by a circuit breaker;
// a failed generation is never re-issued, so a flaky upstream cannot
// double-bill a 200k-character analysis prompt.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor

	maxAnalysisChars    int
	maxChatContextChars int
	marketAvgRate       float64
}

type Config struct {
	BaseURL string
	Model   string
	APIKey  string

	RequestTimeout time.Duration
	RequestsPerMin int

	MaxAnalysisChars    int
	MaxChatContextChars int
	MarketAvgRate       float64

	Logger *slog.Logger
}

func New(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}
	if cfg.RequestsPerMin <= 0 {
		cfg.RequestsPerMin = 15
	}
	if cfg.MaxAnalysisChars <= 0 {
		cfg.MaxAnalysisChars = 200000
	}
	if cfg.MaxChatContextChars <= 0 {
		cfg.MaxChatContextChars = 20000
	}
	if cfg.MarketAvgRate <= 0 {
		cfg.MarketAvgRate = 7.0
	}

	execCfg := resilience.DefaultConfig()
	// Single attempt: the breaker still tracks failures, but the
	// generation call itself must not retry.
	execCfg.RetryMaxAttempts = 1
	execCfg.Logger = cfg.Logger

	return &Client{
		baseURL:             strings.TrimRight(cfg.BaseURL, "/"),
		model:               cfg.Model,
		apiKey:              cfg.APIKey,
		httpClient:          &http.Client{Timeout: cfg.RequestTimeout},
		limiter:             rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMin)/60.0), 1),
		executor:            resilience.NewExecutor(execCfg),
		maxAnalysisChars:    cfg.MaxAnalysisChars,
		maxChatContextChars: cfg.MaxChatContextChars,
		marketAvgRate:       cfg.MarketAvgRate,
	}
}

func (c *Client) AnalyzeDocument(ctx context.Context, filename, text string) (domain.Analysis, error) {
	prompt := buildAnalysisPrompt(filename, text, c.maxAnalysisChars, c.marketAvgRate)

	raw, err := c.generate(ctx, "analyze_document", prompt)
	if err != nil {
		return domain.Analysis{}, wrapUnavailable("analyze document", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return domain.Analysis{}, err
	}
	return analysis, nil
}

func (c *Client) AnswerQuestion(ctx context.Context, question string, sections []domain.Section, rawText string) (string, error) {
	prompt := buildChatPrompt(question, sections, rawText, c.maxChatContextChars)

	raw, err := c.generate(ctx, "answer_question", prompt)
	if err != nil {
		return "", wrapUnavailable("answer question", err)
	}
	return strings.TrimSpace(raw), nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, operation, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var out string
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		text, err := c.postGenerate(ctx, operation, prompt)
		if err != nil {
			return err
		}
		out = text
		return nil
	}, classifyGeminiError)
	return out, err
}

func (c *Client) postGenerate(ctx context.Context, operation, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", operation, err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &HTTPStatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var response generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode %s response: %w", operation, err)
	}
	if len(response.Candidates) == 0 {
		return "", fmt.Errorf("gemini %s: no candidates in response", operation)
	}

	var sb strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "gemini status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("gemini %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("gemini %s status: %s: %s", e.Operation, e.Status, e.Body)
}

// classifyGeminiError decides what the breaker should count. Caller
// cancellation and 4xx responses are not upstream failures.
func classifyGeminiError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500 {
			return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

func wrapUnavailable(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.WrapError(domain.ErrAnalysisUnavailable, operation, err)
}
