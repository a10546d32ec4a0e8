// Package evaluation keeps the answered turns of a session and scores them
// with retrieval quality metrics.
package evaluation

import (
	"context"
	"math"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
)

type Metric string

const (
	ContextPrecision Metric = "context_precision"
	ContextRecall    Metric = "context_recall"
	Faithfulness     Metric = "faithfulness"
	AnswerRelevancy  Metric = "answer_relevancy"
)

var AllMetrics = []Metric{ContextPrecision, ContextRecall, Faithfulness, AnswerRelevancy}

// ParseMetrics keeps the known names, in order and without duplicates.
func ParseMetrics(names []string) []Metric {
	seen := make(map[Metric]bool, len(names))
	var out []Metric
	for _, n := range names {
		m := Metric(n)
		if !m.Valid() || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func (m Metric) Valid() bool {
	switch m {
	case ContextPrecision, ContextRecall, Faithfulness, AnswerRelevancy:
		return true
	}
	return false
}

// Sample is the single-row input of one evaluation.
type Sample struct {
	Question  string
	Answer    string
	Contexts  []string
	Reference string
}

type Scores map[Metric]float64

// Evaluator computes the requested metrics for one sample. A metric it
// cannot compute is left out of the result.
type Evaluator interface {
	Evaluate(ctx context.Context, sample Sample, metrics []Metric) (Scores, error)
}

func field(r *ragModel.EvaluationRecord, m Metric) **float64 {
	switch m {
	case ContextPrecision:
		return &r.ContextPrecision
	case ContextRecall:
		return &r.ContextRecall
	case Faithfulness:
		return &r.Faithfulness
	case AnswerRelevancy:
		return &r.AnswerRelevancy
	}
	return nil
}

// recomputeOverall sets OverallScore to the mean of the non-nil metrics, or
// nil when there are none.
func recomputeOverall(r *ragModel.EvaluationRecord) {
	var sum float64
	n := 0
	for _, m := range AllMetrics {
		if v := *field(r, m); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		r.OverallScore = nil
		return
	}
	mean := sum / float64(n)
	r.OverallScore = &mean
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
