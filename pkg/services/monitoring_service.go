package services

import (
	"strings"
	"sync"
	"time"

	"sticker-forecast-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// maxLogEntries メモリ上に保持するリクエストログの上限
const maxLogEntries = 1000

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sticker_api_requests_total",
		Help: "Total number of HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sticker_api_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	modelsLoadedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sticker_api_models_loaded",
		Help: "Number of country models currently loaded in the registry.",
	})
)

// SetModelsLoaded レジストリのロード結果をメトリクスに反映する
func SetModelsLoaded(n int) {
	modelsLoadedGauge.Set(float64(n))
}

// logEntry 単一リクエストの記録
type logEntry struct {
	RequestID    string
	Timestamp    time.Time
	Path         string
	Method       string
	StatusCode   int
	ResponseTime time.Duration
}

// MonitoringService はAPIのモニタリング機能を提供します。
// リクエストログのリングバッファと構造化ログ・メトリクスの記録を担う。
type MonitoringService struct {
	logger zerolog.Logger
	logs   []logEntry
	mu     sync.RWMutex
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService(logger zerolog.Logger) *MonitoringService {
	return &MonitoringService{
		logger: logger,
		logs:   make([]logEntry, 0, maxLogEntries),
	}
}

// logRequest はリクエストを記録します。上限を超えたら古いものから捨てる。
func (s *MonitoringService) logRequest(entry logEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.logs) >= maxLogEntries {
		s.logs = s.logs[1:]
	}
	s.logs = append(s.logs, entry)
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
// リクエストIDの採番、構造化ログ出力、Prometheusメトリクス更新を行う。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		// 次のミドルウェア/ハンドラを実行
		c.Next()

		// メトリクス系エンドポイント自身は記録しない
		path := c.Request.URL.Path
		if path == "/metrics" || strings.HasPrefix(path, "/api/monitoring") {
			return
		}

		status := c.Writer.Status()
		elapsed := time.Since(start)

		requestsTotal.WithLabelValues(c.Request.Method, path, statusLabel(status)).Inc()
		requestDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed.Seconds())

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("request")

		s.logRequest(logEntry{
			RequestID:    requestID,
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   status,
			ResponseTime: elapsed,
		})
	}
}

// RecentLogs は新しい順に最大 limit 件のリクエストログを返します。
func (s *MonitoringService) RecentLogs(limit int) []models.RequestLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.logs) {
		limit = len(s.logs)
	}

	entries := make([]models.RequestLogEntry, 0, limit)
	for i := len(s.logs) - 1; i >= 0 && len(entries) < limit; i-- {
		entry := s.logs[i]
		entries = append(entries, models.RequestLogEntry{
			RequestID:    entry.RequestID,
			Timestamp:    entry.Timestamp.Format(time.RFC3339),
			Method:       entry.Method,
			Path:         entry.Path,
			StatusCode:   entry.StatusCode,
			ResponseTime: entry.ResponseTime.Milliseconds(),
		})
	}
	return entries
}

// statusLabel はステータスコードをメトリクスラベル用のクラスに丸める
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
