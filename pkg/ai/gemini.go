package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.0-flash-lite"

	// MissingAPIKeyMessage is returned when no Google API key is configured.
	MissingAPIKeyMessage = "API Key is not configured. Please add your GOOGLE_API_KEY to the secrets file or environment."

	maxErrorBody = 64 * 1024
)

// GeminiConfig configures GeminiClient.
type GeminiConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
	RetryMax        int
	Logger          zerolog.Logger
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	usageTracker
	cfg  GeminiConfig
	http *retryablehttp.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int32   `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiClient builds a client. A missing API key is not an error here;
// GetChatCompletion reports it so the UI can surface the message.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.ErrorHandler = keepLastResponse
	rc.Logger = leveledLogger{log: cfg.Logger.With().Str("component", "gemini").Logger()}
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.HTTPClient.Transport = otelhttp.NewTransport(rc.HTTPClient.Transport)

	return &GeminiClient{cfg: cfg, http: rc}
}

func (c *GeminiClient) Model() string    { return c.cfg.Model }
func (c *GeminiClient) Provider() string { return ProviderGemini }

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
}

// GetChatCompletion sends promptText and returns the first candidate's text.
// An empty string with a nil error means the model answered with no text.
func (c *GeminiClient) GetChatCompletion(ctx context.Context, promptText string) (string, TokenUsage, error) {
	if c.cfg.APIKey == "" {
		return "", TokenUsage{}, errors.New(errors.CodeConfigurationInvalid, "ai", MissingAPIKeyMessage, nil)
	}

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: promptText}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", TokenUsage{}, errors.New(errors.CodeInternalError, "ai", "failed to encode request", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", TokenUsage{}, errors.New(errors.CodeInternalError, "ai", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Header rather than ?key= so the key never shows up in logged URLs.
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if resp == nil {
		if ctx.Err() != nil {
			return "", TokenUsage{}, errors.New(errors.CodeTimeoutError, "ai", "Error communicating with the API", ctx.Err())
		}
		return "", TokenUsage{}, errors.New(errors.CodeNetworkError, "ai", "Error communicating with the API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", TokenUsage{}, errors.New(errors.CodeNetworkError, "ai",
			fmt.Sprintf("Error communicating with the API: %s", describeHTTPError(resp)), nil)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", TokenUsage{}, errors.New(errors.CodeNetworkError, "ai", "failed to decode API response", err)
	}

	var usage TokenUsage
	if out.UsageMetadata != nil {
		usage = TokenUsage{
			PromptTokens:     out.UsageMetadata.PromptTokenCount,
			CompletionTokens: out.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      out.UsageMetadata.TotalTokenCount,
		}
		c.add(usage)
	}

	if len(out.Candidates) == 0 {
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			return "", usage, errors.New(errors.CodeGenerationFailed, "ai",
				fmt.Sprintf("the request was blocked by the model (%s)", out.PromptFeedback.BlockReason), nil)
		}
		return "", usage, nil
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), usage, nil
}

// keepLastResponse hands the final attempt's response back to the caller
// once retries are exhausted so the upstream error body can be reported.
func keepLastResponse(resp *http.Response, err error, _ int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

func describeHTTPError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var ge geminiError
	if err := json.Unmarshal(body, &ge); err == nil && ge.Error.Message != "" {
		return fmt.Sprintf("%d %s: %s", resp.StatusCode, ge.Error.Status, ge.Error.Message)
	}
	return resp.Status
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
