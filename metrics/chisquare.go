package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
)

// ChiSquareGOF はカテゴリごとの観測度数が期待重み（正規化前でよい）に
// 従うかをPearsonのカイ二乗適合度検定で判定し、統計量とp値を返す。
// 期待重みが0のカテゴリは自由度に含めない。ただしそこに観測があれば
// 統計量は+Inf、p値は0となる。
func ChiSquareGOF(observed, expectedWeights []float64) (statistic, pValue float64, err error) {
	const op = "ChiSquareGOF"
	if len(observed) == 0 {
		return 0, 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(observed) != len(expectedWeights) {
		return 0, 0, errors.NewInvalidParameterError(op, "expected_weights", "length must match observed", len(expectedWeights))
	}
	for i := range observed {
		if observed[i] < 0 || math.IsNaN(observed[i]) || math.IsInf(observed[i], 0) {
			return 0, 0, errors.NewInvalidParameterError(op, "observed", "counts must be finite and non-negative", observed[i])
		}
		if expectedWeights[i] < 0 || math.IsNaN(expectedWeights[i]) || math.IsInf(expectedWeights[i], 0) {
			return 0, 0, errors.NewInvalidParameterError(op, "expected_weights", "weights must be finite and non-negative", expectedWeights[i])
		}
	}

	total := floats.Sum(observed)
	wsum := floats.Sum(expectedWeights)
	if total == 0 || wsum == 0 {
		return 0, 0, errors.NewInvalidParameterError(op, "observed", "observed counts and expected weights must not sum to zero", total)
	}

	obs := make([]float64, 0, len(observed))
	exp := make([]float64, 0, len(observed))
	for i, w := range expectedWeights {
		if w == 0 {
			if observed[i] > 0 {
				return math.Inf(1), 0, nil
			}
			continue
		}
		obs = append(obs, observed[i])
		exp = append(exp, w/wsum*total)
	}

	df := len(obs) - 1
	if df < 1 {
		return 0, 1, nil
	}
	statistic = stat.ChiSquare(obs, exp)
	pValue = distuv.ChiSquared{K: float64(df)}.Survival(statistic)
	return statistic, pValue, nil
}
