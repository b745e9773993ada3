// Package metrics は在/背景データで学習したモデルの評価指標と、
// サンプラーの分布検定に使う適合度検定を提供します。
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
)

// AUC はROC曲線下面積をMann-Whitney U統計量から計算する。
// yTrueは0（背景点）または1（在データ）のみを含む必要がある。
// 同順位のスコアは平均順位で扱う。
// 片方のクラスしか存在しない場合はUndefinedMetricWarningを発生させ0.5を返す。
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewInvalidParameterError("AUC", "input", "vectors must not be nil", nil)
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "AUC")
	}
	if yScore.Len() != n {
		return 0, errors.NewInvalidParameterError("AUC", "y_score", "length must match y_true", yScore.Len())
	}

	labels := make([]bool, n)
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			labels[i] = true
		case 0:
		default:
			return 0, errors.NewInvalidParameterError("AUC", "y_true", "labels must be 0 or 1", yTrue.AtVec(i))
		}
		scores[i] = yScore.AtVec(i)
	}
	if err := errors.CheckNumericalStability("AUC", "y_score", scores); err != nil {
		return 0, err
	}
	return mannWhitneyAUC(labels, scores), nil
}

// AUCMatrix は行列形式の入力に対してAUCを計算する。先頭列のみを使用する。
func AUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewInvalidParameterError("AUCMatrix", "input", "matrices must not be nil", nil)
	}
	rTrue, cTrue := yTrue.Dims()
	rScore, cScore := yScore.Dims()
	if rTrue == 0 || cTrue == 0 || rScore == 0 || cScore == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "AUCMatrix")
	}
	if rTrue != rScore {
		return 0, errors.NewInvalidParameterError("AUCMatrix", "y_score", "row count must match y_true", rScore)
	}

	t := mat.NewVecDense(rTrue, nil)
	s := mat.NewVecDense(rScore, nil)
	for i := 0; i < rTrue; i++ {
		t.SetVec(i, yTrue.At(i, 0))
		s.SetVec(i, yScore.At(i, 0))
	}
	return AUC(t, s)
}

// PresenceBackgroundAUC は在データ地点と背景点でのモデル出力から
// 在/背景AUCを計算する。
func PresenceBackgroundAUC(presence, background []float64) (float64, error) {
	if len(presence)+len(background) == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "PresenceBackgroundAUC")
	}
	labels := make([]bool, 0, len(presence)+len(background))
	scores := make([]float64, 0, len(presence)+len(background))
	for _, v := range presence {
		labels = append(labels, true)
		scores = append(scores, v)
	}
	for _, v := range background {
		labels = append(labels, false)
		scores = append(scores, v)
	}
	if err := errors.CheckNumericalStability("PresenceBackgroundAUC", "scores", scores); err != nil {
		return 0, err
	}
	return mannWhitneyAUC(labels, scores), nil
}

func mannWhitneyAUC(labels []bool, scores []float64) float64 {
	n := len(scores)
	var nPos int
	for _, l := range labels {
		if l {
			nPos++
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present in y_true", 0.5))
		return 0.5
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	// 同順位は平均順位（1始まり）
	var rankSumPos float64
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[order[j+1]] == scores[order[i]] {
			j++
		}
		avgRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			if labels[order[k]] {
				rankSumPos += avgRank
			}
		}
		i = j + 1
	}

	u := rankSumPos - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg))
}
