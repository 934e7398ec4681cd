package regressor

import (
	"fmt"

	"github.com/dmitryikh/leaves"
)

// Predictor は学習済み回帰モデルの唯一の能力を表すインターフェース。
// 行の順序と予測値の順序は一致することが保証される。
type Predictor interface {
	// Predict runs batch inference over the given feature rows.
	Predict(rows [][]float64) ([]float64, error)
}

// LightGBMRegressor wraps a LightGBM booster loaded from a text model dump.
// leaves のアンサンブルはロード後イミュータブルで、並行呼び出しに対して安全。
type LightGBMRegressor struct {
	ensemble *leaves.Ensemble
}

// Load reads a LightGBM text model file saved by the offline training
// pipeline and prepares it for batch inference.
func Load(path string) (*LightGBMRegressor, error) {
	ensemble, err := leaves.LGEnsembleFromFile(path, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load model file %s: %w", path, err)
	}
	return &LightGBMRegressor{ensemble: ensemble}, nil
}

// NumFeatures モデルが期待する特徴量の数
func (r *LightGBMRegressor) NumFeatures() int {
	return r.ensemble.NFeatures()
}

// Predict runs the booster over all rows in a single dense batch call,
// preserving row order in the returned scores.
func (r *LightGBMRegressor) Predict(rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty feature batch")
	}

	ncols := len(rows[0])
	if ncols != r.ensemble.NFeatures() {
		return nil, fmt.Errorf("feature batch has %d columns, model expects %d", ncols, r.ensemble.NFeatures())
	}

	// 行列を1次元の dense バッファに詰め替える
	flat := make([]float64, 0, len(rows)*ncols)
	for i, row := range rows {
		if len(row) != ncols {
			return nil, fmt.Errorf("feature batch is ragged: row %d has %d columns, expected %d", i, len(row), ncols)
		}
		flat = append(flat, row...)
	}

	predictions := make([]float64, len(rows))
	if err := r.ensemble.PredictDense(flat, len(rows), ncols, predictions, 0, 1); err != nil {
		return nil, fmt.Errorf("batch prediction failed: %w", err)
	}

	return predictions, nil
}
