package errors

import (
	"fmt"
	"math"
)

// CheckNumericalStability reports the first NaN or Inf in values as an
// InvalidParameterError naming param.
func CheckNumericalStability(op, param string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewInvalidParameterError(op, param, fmt.Sprintf("non-finite value at index %d", i), v)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for NaN or Inf.
func CheckScalar(op, param string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewInvalidParameterError(op, param, "must be finite", value)
	}
	return nil
}

// ClipValue clips a value to the range [min, max].
func ClipValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
