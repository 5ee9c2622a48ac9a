package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "csv-chat-api/configs"
	"csv-chat-api/pkg/openai"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCompletion struct{}

func (echoCompletion) Complete(ctx context.Context, systemRole, prompt string) (string, error) {
	return `{"bot_response":"done","chart":{"mark":"point"}}`, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:             "0",
		OpenAIBaseURL:    "https://api.openai.com/v1",
		OpenAIModel:      "gpt-4o-mini",
		OpenAIMaxTokens:  100,
		OpenAITimeout:    time.Second,
		StaticDir:        t.TempDir(),
		PromptConfigPath: "../../configs/system_prompt.yaml",
		SessionSecret:    "test-secret",
		SessionTTL:       time.Hour,
		MaxUploadBytes:   1 << 20,
	}
}

func TestNewServesUploadThenChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := New(testConfig(t), echoCompletion{})
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "points.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("x,y\n1,2\n3,4\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-csv/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Header().Get("X-Session-ID")
	require.NotEmpty(t, sessionID)

	req = httptest.NewRequest(http.MethodPost, "/chat/", bytes.NewBufferString(`{"text":"scatter x vs y"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sessionID)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bot_response":"done","chart":{"mark":"point"}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/monitoring/logs?period=1h", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"replied":1`)
}

func TestNewRejectsBrokenPromptConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.PromptConfigPath = t.TempDir()

	_, err := New(cfg, echoCompletion{})
	assert.Error(t, err)
}

func TestNewModelClientSelectsProvider(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, "gpt-4o-mini", NewModelClient(cfg).Model())

	cfg.AzureOpenAIEndpoint = "https://example.openai.azure.com"
	cfg.AzureOpenAIDeploymentName = "chat-dep"
	client := NewModelClient(cfg)
	assert.IsType(t, &openai.Client{}, client)
	assert.Equal(t, "chat-dep", client.Model())
}
