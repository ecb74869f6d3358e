package model

import "fmt"

// NoticeKind classifies a non-fatal condition raised by a pipeline stage.
type NoticeKind string

const (
	NoticeDataQuality        NoticeKind = "DATA_QUALITY"
	NoticeEmptySelection     NoticeKind = "EMPTY_SELECTION"
	NoticeComputationAnomaly NoticeKind = "COMPUTATION_ANOMALY"
	NoticeReshapeFailure     NoticeKind = "RESHAPE_FAILURE"
)

// Notice is an informational message for the presentation layer.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Noticef builds a Notice with a formatted message.
func Noticef(kind NoticeKind, format string, args ...any) Notice {
	return Notice{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Kind, n.Message)
}
