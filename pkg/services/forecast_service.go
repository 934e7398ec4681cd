package services

import (
	"fmt"

	"sticker-forecast-api/pkg/features"
	"sticker-forecast-api/pkg/models"
	"sticker-forecast-api/pkg/regressor"
)

// defaultForecastDays 予測日数が未指定のときのデフォルト
const defaultForecastDays = 30

// ModelSource は予測エンジンが必要とするレジストリの能力。
// テストではスタブ実装を渡す。
type ModelSource interface {
	Get(country string) (regressor.Predictor, bool)
}

// ForecastService 売上予測エンジン。状態を持たず並行呼び出しに安全。
type ForecastService struct {
	models ModelSource
}

// NewForecastService 新しい予測エンジンを作成
func NewForecastService(models ModelSource) *ForecastService {
	return &ForecastService{
		models: models,
	}
}

// Forecast runs the full pipeline for one request: validate, dispatch to the
// country's model, batch predict over the date range, clamp, and summarize.
func (fs *ForecastService) Forecast(req models.ForecastRequest) (*models.ForecastResponse, error) {
	// 1. 必須パラメータの検証（レジストリに触れる前に行う）
	if req.Country == "" {
		return nil, &MissingParameterError{Param: "country"}
	}
	if req.Store == "" {
		return nil, &MissingParameterError{Param: "store"}
	}
	if req.Product == "" {
		return nil, &MissingParameterError{Param: "product"}
	}
	if req.StartDate == "" {
		return nil, &MissingParameterError{Param: "start_date"}
	}

	days := req.Days
	if days == 0 {
		days = defaultForecastDays
	}
	if days < 0 {
		return nil, &MissingParameterError{Param: "days"}
	}

	// 2. この国のモデルを取得（推論を始める前に fail fast）
	model, ok := fs.models.Get(req.Country)
	if !ok {
		return nil, &UnknownCountryError{Country: req.Country}
	}

	startDate, err := features.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	// 3. 開始日から連続する日付を展開し、1日1行の特徴量バッチを作る
	dates := make([]string, days)
	rows := make([][]float64, days)
	for i := 0; i < days; i++ {
		date := startDate.AddDate(0, 0, i)
		dates[i] = date.Format("2006-01-02")
		rows[i] = features.Encode(date, req.Country, req.Store, req.Product).Values()
	}

	// 4. バッチ全体を1回の予測呼び出しで処理する（行順＝出力順）
	predictions, err := model.Predict(rows)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	if len(predictions) != days {
		return nil, &InferenceError{Err: fmt.Errorf("model returned %d predictions for %d rows", len(predictions), days)}
	}

	// 5. 非負クランプ（販売数がマイナスになることはない）とサマリー集計。
	//    合計・平均はクランプ後の値から計算する。
	forecast := make([]models.ForecastPoint, days)
	total := 0.0
	for i, prediction := range predictions {
		if prediction < 0 {
			prediction = 0
		}
		forecast[i] = models.ForecastPoint{
			Date:  dates[i],
			Sales: prediction,
		}
		total += prediction
	}

	return &models.ForecastResponse{
		Forecast: forecast,
		Summary: models.ForecastSummary{
			Total:   total,
			Average: total / float64(days),
		},
	}, nil
}
