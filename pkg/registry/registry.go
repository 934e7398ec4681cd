package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sticker-forecast-api/pkg/regressor"

	"github.com/rs/zerolog"
)

// modelFileSuffix モデルストア内のアーティファクトの命名規則
const modelFileSuffix = "_model.txt"

// ModelRegistry は国名から学習済みモデルへのマッピング。
// Load を起動時に1度だけ呼び、それ以降は読み取り専用で使う。
// ロード完了後は変更されないため、並行アクセスにロックは不要。
type ModelRegistry struct {
	dir    string
	models map[string]regressor.Predictor
	logger zerolog.Logger
}

// New creates a registry backed by the given model store directory.
func New(dir string, logger zerolog.Logger) *ModelRegistry {
	return &ModelRegistry{
		dir:    dir,
		models: make(map[string]regressor.Predictor),
		logger: logger,
	}
}

// Load scans the model store and loads one regressor per country.
// ストアが存在しない・空の場合は false を返すがサービスは継続する。
// 個々のアーティファクトのロード失敗はログに残してスキップする。
func (r *ModelRegistry) Load() bool {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		r.logger.Warn().Err(err).Str("dir", r.dir).
			Msg("モデルディレクトリが見つかりません。学習パイプラインを先に実行してください")
		return false
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelFileSuffix) {
			continue
		}

		country := countryFromFilename(entry.Name())
		path := filepath.Join(r.dir, entry.Name())

		model, err := regressor.Load(path)
		if err != nil {
			// 壊れたアーティファクトがあっても他のモデルのロードは続行する
			r.logger.Error().Err(err).Str("country", country).Str("path", path).
				Msg("モデルのロードに失敗したためスキップします")
			continue
		}

		r.models[country] = model
		r.logger.Info().Str("country", country).Msg("モデルをロードしました")
	}

	if len(r.models) == 0 {
		r.logger.Warn().Str("dir", r.dir).
			Msg("モデルファイルが1つもロードされませんでした")
		return false
	}

	return true
}

// Get returns the trained model for a country, or false when none exists.
// 未知の国はエラーではなく不在として扱う（呼び出し側で400系にマップする）。
func (r *ModelRegistry) Get(country string) (regressor.Predictor, bool) {
	model, ok := r.models[country]
	return model, ok
}

// Countries ロード済みモデルの国名一覧（ソート済み）
func (r *ModelRegistry) Countries() []string {
	countries := make([]string, 0, len(r.models))
	for country := range r.models {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

// Len ロード済みモデル数
func (r *ModelRegistry) Len() int {
	return len(r.models)
}

// countryFromFilename は "canada_model.txt" から "Canada" を復元する
func countryFromFilename(name string) string {
	country := strings.TrimSuffix(name, modelFileSuffix)
	if country == "" {
		return country
	}
	return strings.ToUpper(country[:1]) + strings.ToLower(country[1:])
}
