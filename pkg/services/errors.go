package services

import "fmt"

// MissingParameterError 必須パラメータの欠落または不正（クライアント起因、400系）
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Param)
}

// UnknownCountryError レジストリに該当国のモデルが存在しない（クライアント起因、400系）
type UnknownCountryError struct {
	Country string
}

func (e *UnknownCountryError) Error() string {
	return fmt.Sprintf("no model available for %s", e.Country)
}

// InferenceError モデル推論の失敗（サーバー起因、500系）。
// 特徴量スキーマの不一致など一時的でない異常を示すため、リトライはしない。
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("model inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
