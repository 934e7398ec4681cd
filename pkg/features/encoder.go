package features

import (
	"fmt"
	"time"
)

// epochDate 学習データの起点日。days_from_start はこの日からの経過日数。
var epochDate = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

// Columns is the feature column order the models were trained with.
// 学習時と完全に一致させること。順序がずれると予測が静かに壊れる。
var Columns = []string{
	"year", "month", "day_of_week", "is_weekend",
	"country_code", "store_code", "product_code",
	"days_from_start", "quarter",
}

// カテゴリのコード表。モデル学習時の category codes と同一。
var countryCodes = map[string]int{
	"Canada":    0,
	"Finland":   1,
	"Italy":     2,
	"Kenya":     3,
	"Norway":    4,
	"Singapore": 5,
}

var storeCodes = map[string]int{
	"Discount Stickers":    0,
	"Premium Sticker Mart": 1,
	"Stickers for Less":    2,
}

var productCodes = map[string]int{
	"Holographic Goose":  0,
	"Kaggle":             1,
	"Kaggle Tiers":       2,
	"Kerneler":           3,
	"Kerneler Dark Mode": 4,
}

// InvalidDateError 日付として解釈できない入力
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %q (expected YYYY-MM-DD)", e.Value)
}

// Vector 1リクエスト分の特徴量（Columns と同じ順序で数値化される）
type Vector struct {
	Year          int
	Month         int
	DayOfWeek     int // 0=月曜 ... 6=日曜
	IsWeekend     int
	CountryCode   int
	StoreCode     int
	ProductCode   int
	DaysFromStart int
	Quarter       int
}

// Values returns the vector as a row in training column order.
func (v Vector) Values() []float64 {
	return []float64{
		float64(v.Year),
		float64(v.Month),
		float64(v.DayOfWeek),
		float64(v.IsWeekend),
		float64(v.CountryCode),
		float64(v.StoreCode),
		float64(v.ProductCode),
		float64(v.DaysFromStart),
		float64(v.Quarter),
	}
}

// ParseDate は YYYY-MM-DD 形式の日付文字列をUTC深夜0時に正規化する
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, &InvalidDateError{Value: value}
	}
	return d, nil
}

// Encode builds the feature vector for a single (date, country, store, product)
// combination. 未知のカテゴリ値はエラーにせずコード0にフォールバックする
// （学習済みモデルが想定するコード表との互換性維持のため）。
func Encode(date time.Time, country, store, product string) Vector {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	// Goの Weekday は日曜=0 なので、月曜=0 のISO流に変換する
	dayOfWeek := (int(day.Weekday()) + 6) % 7

	isWeekend := 0
	if dayOfWeek == 5 || dayOfWeek == 6 {
		isWeekend = 1
	}

	month := int(day.Month())

	return Vector{
		Year:          day.Year(),
		Month:         month,
		DayOfWeek:     dayOfWeek,
		IsWeekend:     isWeekend,
		CountryCode:   countryCodes[country],
		StoreCode:     storeCodes[store],
		ProductCode:   productCodes[product],
		DaysFromStart: int(day.Sub(epochDate).Hours() / 24),
		Quarter:       (month-1)/3 + 1,
	}
}

// Countries 既知の国名一覧（ソート済みコード順）
func Countries() []string {
	return sortedKeys(countryCodes)
}

// Stores 既知の店舗名一覧（ソート済みコード順）
func Stores() []string {
	return sortedKeys(storeCodes)
}

// Products 既知の製品名一覧（ソート済みコード順）
func Products() []string {
	return sortedKeys(productCodes)
}

// sortedKeys はコード値の昇順でキーを返す
func sortedKeys(codes map[string]int) []string {
	keys := make([]string, len(codes))
	for name, code := range codes {
		keys[code] = name
	}
	return keys
}
