package main

import (
	"log"
	"os"

	config "sticker-forecast-api/configs"
	"sticker-forecast-api/pkg/handlers"
	"sticker-forecast-api/pkg/registry"
	"sticker-forecast-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// モデルレジストリの初期化（起動時に1度だけロードする）
	modelRegistry := registry.New(cfg.ModelsDir, logger)
	if !modelRegistry.Load() {
		// モデルなしでも起動は継続する。予測リクエストは400で応答される。
		log.Printf("Warning: no models loaded from %s; forecast requests will fail until models are provided", cfg.ModelsDir)
	}
	log.Printf("Loaded %d country models: %v", modelRegistry.Len(), modelRegistry.Countries())
	services.SetModelsLoaded(modelRegistry.Len())

	// Ginルーターの初期化
	r := gin.Default()

	// サービスの初期化
	monitoringService := services.NewMonitoringService(logger)
	forecastService := services.NewForecastService(modelRegistry)

	// ハンドラーの初期化
	forecastHandler := handlers.NewForecastHandler(forecastService, modelRegistry)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware()) // ロギングミドルウェアをグローバルに適用
	r.Use(cors.Default())

	// ヘルスチェックエンドポイント
	r.GET("/", forecastHandler.HealthCheck)
	r.GET("/health", forecastHandler.HealthCheck)

	// Prometheusメトリクス
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 予測API
	api := r.Group("/api")
	{
		api.POST("/forecast", forecastHandler.Forecast)
		api.POST("/forecast/export", forecastHandler.ExportForecast)
		api.GET("/forecast/options", forecastHandler.GetForecastOptions)

		// モニタリングAPI
		api.GET("/monitoring/logs", monitoringHandler.GetLogs)
	}

	log.Printf("Starting Sticker Sales Forecasting API on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
