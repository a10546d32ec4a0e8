package evaluation

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

const (
	listSeparator        = "; "
	progressPreviewRunes = 50
)

var ExportColumns = []string{
	"timestamp", "question", "answer", "contexts", "source_files",
	"context_precision", "context_recall", "faithfulness", "answer_relevancy", "overall_score",
}

type ProgressFunc func(message string)

// Recorder is the append-only evaluation log of one session.
type Recorder struct {
	mu      sync.Mutex
	records []ragModel.EvaluationRecord
	now     func() time.Time
	logger  *logger_i.Logger
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now, logger: logger_i.NewLogger("evaluation")}
}

func (r *Recorder) Record(question, answer string, contexts, sourceFiles []string) {
	rec := ragModel.EvaluationRecord{
		Timestamp:   r.now(),
		Question:    question,
		Answer:      answer,
		Contexts:    append([]string{}, contexts...),
		SourceFiles: append([]string{}, sourceFiles...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *Recorder) Records() []ragModel.EvaluationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ragModel.EvaluationRecord{}, r.records...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}

// Score runs the requested metrics over every record. The lock is not held
// while the evaluator runs, so Record stays available. A record whose
// evaluation fails keeps its previous values.
func (r *Recorder) Score(ctx context.Context, evaluator Evaluator, requested []Metric, progress ProgressFunc) []ragModel.EvaluationRecord {
	snapshot := r.Records()
	if len(requested) == 0 {
		return snapshot
	}
	log := r.logger.FromContext(ctx)

	for i, rec := range snapshot {
		if progress != nil {
			progress(fmt.Sprintf("Evaluating %d/%d: %s...", i+1, len(snapshot), preview(rec.Question)))
		}

		scores, err := evaluator.Evaluate(ctx, Sample{
			Question:  rec.Question,
			Answer:    rec.Answer,
			Contexts:  rec.Contexts,
			Reference: rec.Answer,
		}, requested)
		if err != nil {
			log.Error("Evaluation error", "record", i, "error", err)
			metrics.CountScoredRecord("error")
			continue
		}

		for _, m := range requested {
			if v, ok := scores[m]; ok && validScore(v) {
				*field(&snapshot[i], m) = &v
			}
		}
		recomputeOverall(&snapshot[i])
		r.writeBack(i, snapshot[i])
		metrics.CountScoredRecord("ok")
	}
	return r.Records()
}

// writeBack replaces record i unless the log was cleared in the meantime.
func (r *Recorder) writeBack(i int, rec ragModel.EvaluationRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < len(r.records) && r.records[i].Timestamp.Equal(rec.Timestamp) && r.records[i].Question == rec.Question {
		r.records[i] = rec
	}
}

// Summary mirrors the aggregate view: empty without records, counts only
// until something is scored.
type Summary struct {
	TotalChats          *int     `json:"total_chats,omitempty"`
	EvaluatedChats      *int     `json:"evaluated_chats,omitempty"`
	AvgOverallScore     *float64 `json:"avg_overall_score,omitempty"`
	AvgContextPrecision *float64 `json:"avg_context_precision,omitempty"`
	AvgContextRecall    *float64 `json:"avg_context_recall,omitempty"`
	AvgFaithfulness     *float64 `json:"avg_faithfulness,omitempty"`
	AvgAnswerRelevancy  *float64 `json:"avg_answer_relevancy,omitempty"`
}

func (s Summary) Empty() bool {
	return s.TotalChats == nil
}

func (r *Recorder) Summarize() Summary {
	records := r.Records()
	if len(records) == 0 {
		return Summary{}
	}

	var scored []ragModel.EvaluationRecord
	for _, rec := range records {
		if rec.OverallScore != nil {
			scored = append(scored, rec)
		}
	}
	total, evaluated := len(records), len(scored)
	s := Summary{TotalChats: &total, EvaluatedChats: &evaluated}
	if evaluated == 0 {
		return s
	}

	s.AvgOverallScore = mean(scored, func(rec *ragModel.EvaluationRecord) *float64 { return rec.OverallScore })
	s.AvgContextPrecision = mean(scored, func(rec *ragModel.EvaluationRecord) *float64 { return rec.ContextPrecision })
	s.AvgContextRecall = mean(scored, func(rec *ragModel.EvaluationRecord) *float64 { return rec.ContextRecall })
	s.AvgFaithfulness = mean(scored, func(rec *ragModel.EvaluationRecord) *float64 { return rec.Faithfulness })
	s.AvgAnswerRelevancy = mean(scored, func(rec *ragModel.EvaluationRecord) *float64 { return rec.AnswerRelevancy })
	return s
}

func mean(records []ragModel.EvaluationRecord, get func(*ragModel.EvaluationRecord) *float64) *float64 {
	var sum float64
	n := 0
	for i := range records {
		if v := get(&records[i]); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// ExportRow is a record with its lists flattened.
type ExportRow struct {
	Timestamp        time.Time `json:"timestamp"`
	Question         string    `json:"question"`
	Answer           string    `json:"answer"`
	Contexts         string    `json:"contexts"`
	SourceFiles      string    `json:"source_files"`
	ContextPrecision *float64  `json:"context_precision"`
	ContextRecall    *float64  `json:"context_recall"`
	Faithfulness     *float64  `json:"faithfulness"`
	AnswerRelevancy  *float64  `json:"answer_relevancy"`
	OverallScore     *float64  `json:"overall_score"`
}

func (r *Recorder) Export() []ExportRow {
	records := r.Records()
	rows := make([]ExportRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, ExportRow{
			Timestamp:        rec.Timestamp,
			Question:         rec.Question,
			Answer:           rec.Answer,
			Contexts:         strings.Join(rec.Contexts, listSeparator),
			SourceFiles:      strings.Join(rec.SourceFiles, listSeparator),
			ContextPrecision: rec.ContextPrecision,
			ContextRecall:    rec.ContextRecall,
			Faithfulness:     rec.Faithfulness,
			AnswerRelevancy:  rec.AnswerRelevancy,
			OverallScore:     rec.OverallScore,
		})
	}
	return rows
}

// WriteCSV writes the export with a header row. Unscored cells are empty.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, row := range r.Export() {
		if err := cw.Write([]string{
			row.Timestamp.Format(time.RFC3339),
			row.Question,
			row.Answer,
			row.Contexts,
			row.SourceFiles,
			formatScore(row.ContextPrecision),
			formatScore(row.ContextRecall),
			formatScore(row.Faithfulness),
			formatScore(row.AnswerRelevancy),
			formatScore(row.OverallScore),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) > progressPreviewRunes {
		runes = runes[:progressPreviewRunes]
	}
	return string(runes)
}
