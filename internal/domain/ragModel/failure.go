package ragModel

import "fmt"

type FailureKind string

const (
	ConfigurationError FailureKind = "configuration_error"
	IngestionError     FailureKind = "ingestion_error"
	RateLimitError     FailureKind = "rate_limit_error"
	RetrievalError     FailureKind = "retrieval_error"
	GenerationError    FailureKind = "generation_error"
	EvaluationError    FailureKind = "evaluation_error"
)

// Failure is the tagged reason carried by an unsuccessful outcome.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func NewFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}
