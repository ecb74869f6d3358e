package loader

import "errors"

// ErrNoSource means neither an upload nor the fallback file is available.
var ErrNoSource = errors.New("no input: upload a file or provide the default data file")

// SchemaError reports a required column that is absent from the input.
// It is fatal for the run.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string { return "schema: " + e.Reason }

var (
	ErrMissingPriceColumn = &SchemaError{Reason: "missing price column"}
	ErrMissingDateColumn  = &SchemaError{Reason: "missing date column"}
)
