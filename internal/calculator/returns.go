package calculator

import "math"

// PctChange returns (x[t]-x[t-1])/x[t-1]. The first position, a missing
// value, or a zero prior value yields NaN.
func PctChange(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		prev, cur := xs[i-1], xs[i]
		if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (cur - prev) / prev
	}
	return out
}

// LogReturns returns ln(x[t]/x[t-1]). The first position, a missing value,
// or a non-positive ratio yields NaN.
func LogReturns(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		prev, cur := xs[i-1], xs[i]
		if math.IsNaN(prev) || math.IsNaN(cur) || prev == 0 {
			out[i] = math.NaN()
			continue
		}
		ratio := cur / prev
		if ratio <= 0 || math.IsInf(ratio, 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Log(ratio)
	}
	return out
}

// Finite drops NaN and infinite values, keeping order.
func Finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
