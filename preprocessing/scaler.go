// Package preprocessing は共変量テーブル（点×レイヤー）の前処理を提供します。
// 欠損値（NaN）は統計量の計算から除外され、変換後もNaNのまま残ります。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
)

// StandardScaler は共変量を平均0、標準偏差1に変換する標準化スケーラー
type StandardScaler struct {
	// Mean は各共変量の平均値
	Mean []float64

	// Scale は各共変量の標準偏差
	Scale []float64

	// NFeatures は共変量（レイヤー）の数
	NFeatures int

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool

	fitted bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	values, _, _ := grid.Extract(points)
//	scaler := preprocessing.NewStandardScaler(true, true)
//	scaled, err := scaler.FitTransform(values)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// IsFitted はFit済みかどうかを返す
func (s *StandardScaler) IsFitted() bool { return s.fitted }

// Fit は列ごとに欠損でない値から平均と（母）標準偏差を計算する。
// 有効な値を1つも持たない列がある場合はエラーを返す。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "StandardScaler.Fit")
	}

	mean := make([]float64, c)
	scale := make([]float64, c)
	for j := 0; j < c; j++ {
		var sum float64
		n := 0
		for i := 0; i < r; i++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			if math.IsInf(v, 0) {
				return errors.NewInvalidParameterError("StandardScaler.Fit", "X", fmt.Sprintf("column %d holds an infinite value", j), v)
			}
			sum += v
			n++
		}
		if n == 0 {
			return errors.NewInvalidParameterError("StandardScaler.Fit", "X", fmt.Sprintf("column %d has no finite values", j), r)
		}

		if s.WithMean {
			mean[j] = sum / float64(n)
		}

		scale[j] = 1.0
		if s.WithStd {
			var sumSquares float64
			for i := 0; i < r; i++ {
				v := X.At(i, j)
				if math.IsNaN(v) {
					continue
				}
				diff := v - sum/float64(n)
				sumSquares += diff * diff
			}
			// 定数列は1のまま（ゼロ除算を避ける）
			if std := math.Sqrt(sumSquares / float64(n)); std >= 1e-8 {
				scale[j] = std
			}
		}
	}

	s.NFeatures = c
	s.Mean = mean
	s.Scale = scale
	s.fitted = true
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.check("StandardScaler.Transform", X); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.check("StandardScaler.InverseTransform", X); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return result, nil
}

func (s *StandardScaler) check(op string, X mat.Matrix) error {
	if !s.fitted {
		return errors.Wrap(errors.ErrNotFitted, op)
	}
	r, c := X.Dims()
	if r == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if c != s.NFeatures {
		return errors.NewInvalidParameterError(op, "X", fmt.Sprintf("expected %d columns", s.NFeatures), c)
	}
	return nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.fitted {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)", s.WithMean, s.WithStd, s.NFeatures)
}
