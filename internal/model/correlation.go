package model

// CorrelationMatrix is a symmetric ticker x ticker Pearson matrix.
type CorrelationMatrix struct {
	Tickers      []string
	Values       [][]float64
	Observations int      // complete return rows used
	Undefined    []string // tickers with constant returns; their row and column are NaN
}

// At returns the coefficient for a pair of tickers.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, t := range m.Tickers {
		if t == a {
			i = k
		}
		if t == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// FailureReason says why no correlation matrix could be produced.
type FailureReason string

const (
	FailureInsufficientTickers FailureReason = "INSUFFICIENT_TICKERS"
	FailureInsufficientRows    FailureReason = "INSUFFICIENT_ROWS"
	FailureReshape             FailureReason = "RESHAPE"
)

// CorrelationFailure is the structured failure side of a CorrelationResult.
type CorrelationFailure struct {
	Reason  FailureReason `json:"reason"`
	Message string        `json:"message"`
}

// CorrelationResult holds either a matrix or a failure, never both.
type CorrelationResult struct {
	Matrix  *CorrelationMatrix
	Failure *CorrelationFailure
}

// OK reports whether a matrix was produced.
func (r CorrelationResult) OK() bool { return r.Matrix != nil }
