package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider 接続先の種類
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderAzure  Provider = "azure"
)

// ErrMissingAPIKey is returned when a request is attempted without a credential.
var ErrMissingAPIKey = errors.New("API key is not configured")

// ClientConfig holds the connection settings for Client.
// For ProviderOpenAI, Endpoint is the API base URL (e.g. https://api.openai.com/v1).
// For ProviderAzure, Endpoint is the resource URL and Deployment/APIVersion are required.
type ClientConfig struct {
	Provider   Provider
	Endpoint   string
	APIKey     string
	Model      string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// Client はOpenAI互換のChat Completions REST APIへのリクエストを管理します。
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// NewClient は新しいクライアントを作成します。
func NewClient(cfg ClientConfig) *Client {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Model returns the model (or deployment) name requests are sent to.
func (c *Client) Model() string {
	if c.cfg.Provider == ProviderAzure {
		return c.cfg.Deployment
	}
	return c.cfg.Model
}

// --- データ構造定義 ---

// ChatMessage チャットメッセージ
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest チャット補完リクエスト
// Temperature has no omitempty: zero is a meaningful value here.
type ChatCompletionRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

// ChatCompletionResponse チャット補完レスポンス
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ChatCompletion チャット補完を実行
func (c *Client) ChatCompletion(ctx context.Context, messages []ChatMessage, maxTokens int, temperature float32) (*ChatCompletionResponse, error) {
	request := ChatCompletionRequest{
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if c.cfg.Provider != ProviderAzure {
		request.Model = c.cfg.Model
	}

	var response ChatCompletionResponse
	if err := c.doRequest(ctx, c.chatURL(), request, &response); err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	return &response, nil
}

// chatURL リクエストURLをプロバイダに応じて組み立てます。
func (c *Client) chatURL() string {
	base := strings.TrimSuffix(c.cfg.Endpoint, "/")
	if c.cfg.Provider == ProviderAzure {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			base, c.cfg.Deployment, c.cfg.APIVersion)
	}
	return base + "/chat/completions"
}

// doRequest はHTTPリクエストの実行と基本的なレスポンス処理を行う共通メソッドです。
func (c *Client) doRequest(ctx context.Context, url string, requestData any, responseData any) error {
	if c.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	requestBody, err := json.Marshal(requestData)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Provider == ProviderAzure {
		req.Header.Set("api-key", c.cfg.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return fmt.Errorf("API error (status: %d): %s", resp.StatusCode, errorResp.Error.Message)
		}
		return fmt.Errorf("API error (status: %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, responseData); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
