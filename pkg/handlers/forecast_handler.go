package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"sticker-forecast-api/pkg/features"
	"sticker-forecast-api/pkg/models"
	"sticker-forecast-api/pkg/registry"
	"sticker-forecast-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ForecastHandler 売上予測ハンドラー
type ForecastHandler struct {
	forecastService *services.ForecastService
	registry        *registry.ModelRegistry
}

// NewForecastHandler 新しい売上予測ハンドラーを作成
func NewForecastHandler(forecastService *services.ForecastService, registry *registry.ModelRegistry) *ForecastHandler {
	return &ForecastHandler{
		forecastService: forecastService,
		registry:        registry,
	}
}

// HealthCheck モデルのロード状況を含むヘルスチェック
func (fh *ForecastHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:       "running",
		ModelsLoaded: fh.registry.Countries(),
	})
}

// Forecast 売上予測を実行するハンドラー
func (fh *ForecastHandler) Forecast(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	response, err := fh.forecastService.Forecast(req)
	if err != nil {
		respondForecastError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetForecastOptions 選択可能な国・店舗・製品の一覧を返すハンドラー
func (fh *ForecastHandler) GetForecastOptions(c *gin.Context) {
	c.JSON(http.StatusOK, models.ForecastOptions{
		Countries: features.Countries(),
		Stores:    features.Stores(),
		Products:  features.Products(),
	})
}

// ExportForecast 予測結果をxlsxレポートとしてダウンロードさせるハンドラー
func (fh *ForecastHandler) ExportForecast(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}

	response, err := fh.forecastService.Forecast(req)
	if err != nil {
		respondForecastError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	// ヘッダー行
	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Predicted Sales")

	// 日次の予測値
	for i, point := range response.Forecast {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), point.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), point.Sales)
	}

	// サマリー（1行空けて合計・平均）
	summaryRow := len(response.Forecast) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), response.Summary.Total)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Average")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), response.Summary.Average)

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Printf("Excelレポートの生成に失敗: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "failed to generate report",
		})
		return
	}

	filename := fmt.Sprintf("forecast_%s_%s.xlsx", req.Country, req.StartDate)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// respondForecastError はエンジンの型付きエラーをHTTPステータスへマップする。
// バリデーション系は400、推論失敗とその他は500。レスポンスは常に全件か空のどちらか。
func respondForecastError(c *gin.Context, err error) {
	var missingParam *services.MissingParameterError
	var unknownCountry *services.UnknownCountryError
	var invalidDate *features.InvalidDateError
	var inference *services.InferenceError

	switch {
	case errors.As(err, &missingParam), errors.As(err, &unknownCountry), errors.As(err, &invalidDate):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.As(err, &inference):
		log.Printf("推論エラー: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("予期しないエラー: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}
}
