package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sticker-forecast-api/pkg/features"
	"sticker-forecast-api/pkg/registry"

	"github.com/rs/zerolog"
)

// modelcheck はモデルストアの健全性を確認するユーティリティ。
// 各国のモデルをロードし、サンプル日付で1件ずつ予測を実行して表示する。
func main() {
	dir := flag.String("dir", "models", "モデルファイルのディレクトリ")
	date := flag.String("date", time.Now().Format("2006-01-02"), "サンプル予測に使う日付 (YYYY-MM-DD)")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})

	modelRegistry := registry.New(*dir, logger)
	if !modelRegistry.Load() {
		log.Fatalf("モデルをロードできませんでした: %s", *dir)
	}

	sampleDate, err := features.ParseDate(*date)
	if err != nil {
		log.Fatalf("日付の解析に失敗: %v", err)
	}

	fmt.Printf("Loaded %d models from %s\n\n", modelRegistry.Len(), *dir)

	for _, country := range modelRegistry.Countries() {
		model, _ := modelRegistry.Get(country)

		// 各国の先頭カテゴリで1行だけ予測して動作確認する
		vector := features.Encode(sampleDate, country, features.Stores()[0], features.Products()[0])
		predictions, err := model.Predict([][]float64{vector.Values()})
		if err != nil {
			fmt.Printf("%-10s  ERROR: %v\n", country, err)
			continue
		}

		fmt.Printf("%-10s  %s  %.2f\n", country, *date, predictions[0])
	}
}
