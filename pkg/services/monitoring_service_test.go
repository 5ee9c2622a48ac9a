package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"csv-chat-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddlewareRecordsOutcome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := NewMonitoringService()

	router := gin.New()
	router.Use(service.LoggingMiddleware())
	router.POST("/chat/", func(c *gin.Context) {
		SetOutcome(c, models.OutcomeReplied)
		c.JSON(http.StatusOK, gin.H{"bot_response": "ok"})
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/chat/", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
		httptest.NewRequest(http.MethodGet, "/missing", nil),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	data := service.GetDashboardData(1)
	assert.Equal(t, 1, data.Endpoints["/chat/"])
	assert.Equal(t, 1, data.Endpoints["/missing"])
	assert.NotContains(t, data.Endpoints, "/health")
	assert.Equal(t, 1, data.ChatOutcomes[models.OutcomeReplied])
	assert.Equal(t, 1, data.StatusCodes["2xx Success"])
	assert.Equal(t, 1, data.StatusCodes["4xx Client Error"])
}

func TestGetDashboardDataBuckets(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	service := NewMonitoringService()
	service.now = func() time.Time { return now }

	service.LogRequest(LogEntry{Timestamp: now.Add(-10 * time.Minute), Path: "/chat/", StatusCode: 200, ResponseTime: 100 * time.Millisecond, Outcome: models.OutcomeReplied})
	service.LogRequest(LogEntry{Timestamp: now.Add(-70 * time.Minute), Path: "/chat/", StatusCode: 200, ResponseTime: 300 * time.Millisecond, Outcome: models.OutcomeUpstreamError})
	service.LogRequest(LogEntry{Timestamp: now.Add(-5 * time.Minute), Path: "/upload-csv/", StatusCode: 500, ResponseTime: 20 * time.Millisecond})
	service.LogRequest(LogEntry{Timestamp: now.Add(-48 * time.Hour), Path: "/chat/", StatusCode: 200})

	data := service.GetDashboardData(24)

	require.Len(t, data.RequestsOverTime, 24)
	assert.Equal(t, "12:00", data.RequestsOverTime[23].Time)
	assert.Equal(t, 2, data.RequestsOverTime[23].Requests)
	assert.Equal(t, 1, data.RequestsOverTime[22].Requests)

	assert.Equal(t, 2, data.Endpoints["/chat/"])
	assert.Equal(t, 1, data.StatusCodes["5xx Server Error"])
	assert.Equal(t, 1, data.ChatOutcomes[models.OutcomeUpstreamError])

	require.Len(t, data.AvgResponseTimes, 2)
	assert.Equal(t, EndpointLatency{Endpoint: "/chat/", ResponseTime: 200}, data.AvgResponseTimes[0])
	assert.Equal(t, EndpointLatency{Endpoint: "/upload-csv/", ResponseTime: 20}, data.AvgResponseTimes[1])

	// 新しい順
	require.Len(t, data.RecentErrors, 2)
	assert.Equal(t, "/upload-csv/", data.RecentErrors[0].Path)
	assert.Equal(t, models.OutcomeUpstreamError, data.RecentErrors[1].Outcome)
}

func TestLogRequestCapsEntries(t *testing.T) {
	service := NewMonitoringService()
	for i := 0; i < maxLogEntries+5; i++ {
		service.LogRequest(LogEntry{Path: "/chat/"})
	}
	assert.Len(t, service.logs, maxLogEntries)
}
