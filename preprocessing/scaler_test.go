package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, math.NaN(),
		3, 10,
		math.NaN(), 10,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	if !scalar.EqualWithinAbs(scaler.Mean[0], 2, 1e-12) {
		t.Errorf("Mean[0] = %v, want 2", scaler.Mean[0])
	}
	if !scalar.EqualWithinAbs(scaler.Scale[0], math.Sqrt(2.0/3.0), 1e-12) {
		t.Errorf("Scale[0] = %v, want sqrt(2/3)", scaler.Scale[0])
	}
	if scaler.Scale[1] != 1 {
		t.Errorf("constant column Scale = %v, want 1", scaler.Scale[1])
	}

	if !math.IsNaN(scaled.At(1, 1)) || !math.IsNaN(scaled.At(3, 0)) {
		t.Error("missing values must stay NaN")
	}
	if scaled.At(0, 1) != 0 {
		t.Errorf("constant column scaled to %v, want 0", scaled.At(0, 1))
	}

	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			want := X.At(i, j)
			got := back.At(i, j)
			if math.IsNaN(want) {
				if !math.IsNaN(got) {
					t.Errorf("back[%d,%d] = %v, want NaN", i, j, got)
				}
				continue
			}
			if !scalar.EqualWithinAbs(got, want, 1e-12) {
				t.Errorf("back[%d,%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestStandardScalerWithoutMean(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})
	scaler := NewStandardScaler(false, true)
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if scaler.Mean[0] != 0 {
		t.Errorf("Mean = %v, want 0", scaler.Mean[0])
	}
	if !scalar.EqualWithinAbs(scaled.At(1, 0), 4, 1e-12) {
		t.Errorf("scaled = %v, want 4", scaled.At(1, 0))
	}
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScalerDefault()

	if _, err := scaler.Transform(mat.NewDense(1, 1, []float64{1})); !errors.Is(err, errors.ErrNotFitted) {
		t.Errorf("Transform() before Fit error = %v, want ErrNotFitted", err)
	}
	if err := scaler.Fit(mat.NewDense(2, 1, []float64{math.NaN(), math.NaN()})); err == nil {
		t.Error("Fit() on an all-NaN column should fail")
	}
	if err := scaler.Fit(mat.NewDense(1, 1, []float64{math.Inf(1)})); err == nil {
		t.Error("Fit() with Inf should fail")
	}
	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(1, 3, nil)); err == nil {
		t.Error("Transform() with the wrong column count should fail")
	}
}
