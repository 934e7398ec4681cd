package services

import (
	"fmt"
	"testing"

	"sticker-forecast-api/pkg/features"
	"sticker-forecast-api/pkg/models"
	"sticker-forecast-api/pkg/regressor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPredictor は固定の予測値を返すテスト用モデル
type stubPredictor struct {
	predictions []float64
	err         error
	gotRows     [][]float64
}

func (s *stubPredictor) Predict(rows [][]float64) ([]float64, error) {
	s.gotRows = rows
	if s.err != nil {
		return nil, s.err
	}
	if s.predictions != nil {
		return s.predictions, nil
	}
	// 指定がなければ行数分の固定値を返す
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = 100.0
	}
	return out, nil
}

// stubModelSource はGet呼び出しを記録するテスト用レジストリ
type stubModelSource struct {
	models   map[string]regressor.Predictor
	getCalls int
}

func (s *stubModelSource) Get(country string) (regressor.Predictor, bool) {
	s.getCalls++
	model, ok := s.models[country]
	return model, ok
}

func newTestService(predictor regressor.Predictor) (*ForecastService, *stubModelSource) {
	source := &stubModelSource{
		models: map[string]regressor.Predictor{"Canada": predictor},
	}
	return NewForecastService(source), source
}

func validRequest() models.ForecastRequest {
	return models.ForecastRequest{
		Country:   "Canada",
		Store:     "Discount Stickers",
		Product:   "Kaggle",
		StartDate: "2024-01-01",
		Days:      3,
	}
}

func TestForecastEndToEnd(t *testing.T) {
	// 負の生スコアがクランプされ、サマリーはクランプ後の値から計算されること
	predictor := &stubPredictor{predictions: []float64{10.0, -5.0, 7.5}}
	service, _ := newTestService(predictor)

	response, err := service.Forecast(validRequest())
	require.NoError(t, err)
	require.Len(t, response.Forecast, 3)

	assert.Equal(t, models.ForecastPoint{Date: "2024-01-01", Sales: 10.0}, response.Forecast[0])
	assert.Equal(t, models.ForecastPoint{Date: "2024-01-02", Sales: 0.0}, response.Forecast[1])
	assert.Equal(t, models.ForecastPoint{Date: "2024-01-03", Sales: 7.5}, response.Forecast[2])

	assert.InDelta(t, 17.5, response.Summary.Total, 1e-9)
	assert.InDelta(t, 17.5/3.0, response.Summary.Average, 1e-9)
}

func TestForecastDatesAreConsecutive(t *testing.T) {
	service, _ := newTestService(&stubPredictor{})

	req := validRequest()
	req.StartDate = "2024-02-27"
	req.Days = 5

	response, err := service.Forecast(req)
	require.NoError(t, err)
	require.Len(t, response.Forecast, 5)

	// 閏年の月境界をまたいで1日刻みで増加すること
	expected := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	for i, point := range response.Forecast {
		assert.Equal(t, expected[i], point.Date)
	}
}

func TestForecastBatchesAllRowsInOneCall(t *testing.T) {
	predictor := &stubPredictor{}
	service, _ := newTestService(predictor)

	req := validRequest()
	req.Days = 7

	_, err := service.Forecast(req)
	require.NoError(t, err)

	// 7日分が1回の予測呼び出しにまとめられ、列数は特徴量の定義と一致する
	require.Len(t, predictor.gotRows, 7)
	for _, row := range predictor.gotRows {
		assert.Len(t, row, len(features.Columns))
	}
}

func TestForecastDefaultDays(t *testing.T) {
	service, _ := newTestService(&stubPredictor{})

	req := validRequest()
	req.Days = 0 // 未指定

	response, err := service.Forecast(req)
	require.NoError(t, err)
	assert.Len(t, response.Forecast, 30)
}

func TestForecastMissingParameters(t *testing.T) {
	service, source := newTestService(&stubPredictor{})

	cases := []struct {
		name   string
		mutate func(*models.ForecastRequest)
	}{
		{"country", func(r *models.ForecastRequest) { r.Country = "" }},
		{"store", func(r *models.ForecastRequest) { r.Store = "" }},
		{"product", func(r *models.ForecastRequest) { r.Product = "" }},
		{"start_date", func(r *models.ForecastRequest) { r.StartDate = "" }},
	}

	for _, tc := range cases {
		req := validRequest()
		tc.mutate(&req)

		_, err := service.Forecast(req)
		require.Error(t, err, "missing %s should fail", tc.name)

		var missingParam *MissingParameterError
		assert.ErrorAs(t, err, &missingParam)
		assert.Equal(t, tc.name, missingParam.Param)
	}

	// バリデーションで落ちた場合はレジストリに触れないこと
	assert.Equal(t, 0, source.getCalls)
}

func TestForecastNegativeDays(t *testing.T) {
	service, _ := newTestService(&stubPredictor{})

	req := validRequest()
	req.Days = -5

	_, err := service.Forecast(req)

	var missingParam *MissingParameterError
	assert.ErrorAs(t, err, &missingParam)
	assert.Equal(t, "days", missingParam.Param)
}

func TestForecastUnknownCountry(t *testing.T) {
	predictor := &stubPredictor{}
	service, _ := newTestService(predictor)

	req := validRequest()
	req.Country = "Atlantis"

	_, err := service.Forecast(req)
	require.Error(t, err)

	var unknownCountry *UnknownCountryError
	assert.ErrorAs(t, err, &unknownCountry)
	assert.Equal(t, "Atlantis", unknownCountry.Country)

	// モデルが見つからない場合は推論まで到達しないこと
	assert.Nil(t, predictor.gotRows)
}

func TestForecastInvalidDate(t *testing.T) {
	service, _ := newTestService(&stubPredictor{})

	req := validRequest()
	req.StartDate = "01/01/2024"

	_, err := service.Forecast(req)

	var invalidDate *features.InvalidDateError
	assert.ErrorAs(t, err, &invalidDate)
}

func TestForecastInferenceError(t *testing.T) {
	predictor := &stubPredictor{err: fmt.Errorf("feature batch has 8 columns, model expects 9")}
	service, _ := newTestService(predictor)

	_, err := service.Forecast(validRequest())
	require.Error(t, err)

	var inference *InferenceError
	assert.ErrorAs(t, err, &inference)
	assert.ErrorContains(t, err, "model expects 9")
}

func TestForecastUnknownStoreAndProductStillSucceed(t *testing.T) {
	// 未知の店舗・製品はエラーにならずコード0として予測される
	predictor := &stubPredictor{}
	service, _ := newTestService(predictor)

	req := validRequest()
	req.Store = "Pop-up Kiosk"
	req.Product = "Mystery Sticker"

	response, err := service.Forecast(req)
	require.NoError(t, err)
	assert.Len(t, response.Forecast, 3)

	// store_code と product_code が0にフォールバックしていること
	assert.Equal(t, 0.0, predictor.gotRows[0][5])
	assert.Equal(t, 0.0, predictor.gotRows[0][6])
}
