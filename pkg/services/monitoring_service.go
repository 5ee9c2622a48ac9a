package services

import (
	"sort"
	"sync"
	"time"

	"csv-chat-api/pkg/models"

	"github.com/gin-gonic/gin"
)

// outcomeContextKey is the gin context key handlers use to report a chat outcome.
const outcomeContextKey = "chat_outcome"

// maxLogEntries 保持するリクエストログの上限
const maxLogEntries = 10000

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time          `json:"timestamp"`
	Path         string             `json:"path"`
	Method       string             `json:"method"`
	StatusCode   int                `json:"status_code"`
	ResponseTime time.Duration      `json:"response_time"`
	Outcome      models.ChatOutcome `json:"outcome,omitempty"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
type MonitoringService struct {
	logs []LogEntry
	mu   sync.RWMutex
	now  func() time.Time
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs: make([]LogEntry, 0),
		now:  time.Now,
	}
}

// LogRequest はリクエストを記録します。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = append([]LogEntry(nil), s.logs[len(s.logs)-maxLogEntries:]...)
	}
}

// SetOutcome lets a handler attach the chat outcome to the request being logged.
func SetOutcome(c *gin.Context, outcome models.ChatOutcome) {
	c.Set(outcomeContextKey, outcome)
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if path == "/monitoring/logs" || path == "/health" {
			return
		}

		entry := LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: s.now().Sub(start),
		}
		if v, ok := c.Get(outcomeContextKey); ok {
			if outcome, ok := v.(models.ChatOutcome); ok {
				entry.Outcome = outcome
			}
		}
		s.LogRequest(entry)
	}
}

// HourlyCount 1時間あたりのリクエスト数
type HourlyCount struct {
	Time     string `json:"time"`
	Requests int    `json:"requests"`
}

// EndpointLatency エンドポイント別の平均応答時間（ミリ秒）
type EndpointLatency struct {
	Endpoint     string `json:"endpoint"`
	ResponseTime int64  `json:"responseTime"`
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	RequestsOverTime []HourlyCount              `json:"requestsOverTime"`
	Endpoints        map[string]int             `json:"endpoints"`
	StatusCodes      map[string]int             `json:"statusCodes"`
	ChatOutcomes     map[models.ChatOutcome]int `json:"chatOutcomes"`
	AvgResponseTimes []EndpointLatency          `json:"avgResponseTimes"`
	RecentErrors     []LogEntry                 `json:"recentErrors"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	filtered := make([]LogEntry, 0)
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			filtered = append(filtered, entry)
		}
	}

	// 時間バケットを過去から現在の順で初期化
	overTime := make([]HourlyCount, periodHours)
	bucketIndex := make(map[int64]int, periodHours)
	for i := 0; i < periodHours; i++ {
		hour := now.Add(-time.Duration(periodHours-1-i) * time.Hour).Truncate(time.Hour)
		bucketIndex[hour.Unix()] = i
		overTime[i] = HourlyCount{Time: hour.Format("15:00")}
	}

	data := DashboardData{
		RequestsOverTime: overTime,
		Endpoints:        make(map[string]int),
		StatusCodes: map[string]int{
			"2xx Success":      0,
			"4xx Client Error": 0,
			"5xx Server Error": 0,
		},
		ChatOutcomes:     make(map[models.ChatOutcome]int),
		AvgResponseTimes: make([]EndpointLatency, 0),
		RecentErrors:     make([]LogEntry, 0),
	}

	responseTimeSum := make(map[string]time.Duration)
	for _, entry := range filtered {
		if i, ok := bucketIndex[entry.Timestamp.Truncate(time.Hour).Unix()]; ok {
			overTime[i].Requests++
		}
		data.Endpoints[entry.Path]++
		responseTimeSum[entry.Path] += entry.ResponseTime

		switch {
		case entry.StatusCode >= 500:
			data.StatusCodes["5xx Server Error"]++
		case entry.StatusCode >= 400:
			data.StatusCodes["4xx Client Error"]++
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			data.StatusCodes["2xx Success"]++
		}

		if entry.Outcome != "" {
			data.ChatOutcomes[entry.Outcome]++
		}
	}

	for path, total := range responseTimeSum {
		avg := total.Milliseconds() / int64(data.Endpoints[path])
		data.AvgResponseTimes = append(data.AvgResponseTimes, EndpointLatency{Endpoint: path, ResponseTime: avg})
	}
	sort.Slice(data.AvgResponseTimes, func(i, j int) bool {
		return data.AvgResponseTimes[i].Endpoint < data.AvgResponseTimes[j].Endpoint
	})

	// 直近のエラー（サーバーエラーと upstream_error）を新しい順に最大10件
	for i := len(filtered) - 1; i >= 0 && len(data.RecentErrors) < 10; i-- {
		if filtered[i].StatusCode >= 500 || filtered[i].Outcome == models.OutcomeUpstreamError {
			data.RecentErrors = append(data.RecentErrors, filtered[i])
		}
	}

	return data
}
