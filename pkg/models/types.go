package models

// ForecastRequest represents an incoming sales forecast request
type ForecastRequest struct {
	Country   string `json:"country"`              // 予測対象の国名（例: "Canada"）
	Store     string `json:"store"`                // 店舗名（例: "Discount Stickers"）
	Product   string `json:"product"`              // 製品名（例: "Kaggle"）
	StartDate string `json:"start_date"`           // 予測開始日（YYYY-MM-DD）
	Days      int    `json:"days,omitempty"`       // 予測日数（省略時は30日）
}

// ForecastPoint 1日分の予測値
type ForecastPoint struct {
	Date  string  `json:"date"`  // YYYY-MM-DD
	Sales float64 `json:"sales"` // 予測販売数（0以上にクランプ済み）
}

// ForecastSummary 予測期間のサマリー
type ForecastSummary struct {
	Total   float64 `json:"total"`   // クランプ後の合計
	Average float64 `json:"average"` // クランプ後の平均
}

// ForecastResponse represents the response from the forecast API
type ForecastResponse struct {
	Forecast []ForecastPoint `json:"forecast"`
	Summary  ForecastSummary `json:"summary"`
}

// HealthResponse represents the health probe payload
type HealthResponse struct {
	Status       string   `json:"status"`
	ModelsLoaded []string `json:"models_loaded"` // ロード済みモデルの国名一覧
}

// ForecastOptions 選択可能なカテゴリ一覧（フロントエンドのセレクトボックス用）
type ForecastOptions struct {
	Countries []string `json:"countries"`
	Stores    []string `json:"stores"`
	Products  []string `json:"products"`
}

// ErrorResponse represents a structured API error
type ErrorResponse struct {
	Error string `json:"error"`
}

// RequestLogEntry モニタリング用のリクエストログ1件
type RequestLogEntry struct {
	RequestID    string `json:"request_id"`
	Timestamp    string `json:"timestamp"`
	Method       string `json:"method"`
	Path         string `json:"path"`
	StatusCode   int    `json:"status_code"`
	ResponseTime int64  `json:"response_time_ms"`
}
