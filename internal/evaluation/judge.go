package evaluation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/internal/rag/embedding"
	"github.com/akolanti/ragchat/internal/rag/llm"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"github.com/jdkato/prose/v2"
	"github.com/tidwall/gjson"
)

var ErrMalformedVerdict = errors.New("judge returned an unusable verdict")

const judgeSystemPrompt = "You are a strict evaluator of question answering systems. Reply with JSON only, no prose and no code fences."

const statementPrompt = `%s

Context:
%s

Statements:
%s

Return {"verdicts":[{"index":<statement number>,"verdict":<1 or 0>}]} with exactly one entry per statement, in order.`

const faithfulnessInstruction = "For each numbered statement decide whether it can be directly inferred from the context. Verdict 1 if it can, 0 if it cannot."

const recallInstruction = "For each numbered sentence of the reference answer decide whether it can be attributed to the context. Verdict 1 if it can, 0 if it cannot."

const precisionPrompt = `Question: %s
Answer: %s
Context: %s

Was this context useful in arriving at the given answer? Return {"reason":"<short>","verdict":<1 or 0>}.`

const relevancyPrompt = `Generate %d distinct questions that the following answer would be a direct response to, written in the language of the answer. Also decide whether the answer is noncommittal (evasive, vague or "I don't know").

Answer: %s

Return {"questions":["..."],"noncommittal":<1 or 0>}.`

// LLMJudge scores samples by asking the chat backend for verdicts and, for
// answer relevancy, comparing embeddings.
type LLMJudge struct {
	chat      llm.Provider
	embedder  embedding.Embedder
	questions int
	logger    *logger_i.Logger
}

func NewLLMJudge(chat llm.Provider, embedder embedding.Embedder) *LLMJudge {
	return &LLMJudge{
		chat:      chat,
		embedder:  embedder,
		questions: config.GeneratedQuestionCount,
		logger:    logger_i.NewLogger("llm_judge"),
	}
}

func (j *LLMJudge) Evaluate(ctx context.Context, sample Sample, requested []Metric) (Scores, error) {
	scores := make(Scores, len(requested))
	for _, m := range requested {
		var (
			v   float64
			ok  bool
			err error
		)

		start := time.Now()
		switch m {
		case Faithfulness:
			v, ok, err = j.statementScore(ctx, faithfulnessInstruction, sample.Answer, sample.Contexts)
		case ContextRecall:
			v, ok, err = j.statementScore(ctx, recallInstruction, sample.Reference, sample.Contexts)
		case ContextPrecision:
			v, ok, err = j.contextPrecision(ctx, sample)
		case AnswerRelevancy:
			v, ok, err = j.answerRelevancy(ctx, sample)
		default:
			continue
		}
		metrics.CaptureExecutionMetrics("evaluation_"+string(m), time.Since(start))

		if err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		if ok {
			scores[m] = v
		} else {
			j.logger.FromContext(ctx).Debug("Metric not computable for sample", "metric", m)
		}
	}
	return scores, nil
}

// statementScore is the share of sentences of text the judge accepts against
// the contexts.
func (j *LLMJudge) statementScore(ctx context.Context, instruction, text string, contexts []string) (float64, bool, error) {
	statements := Sentences(text)
	if len(statements) == 0 {
		return 0, false, nil
	}

	var numbered strings.Builder
	for i, s := range statements {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, s)
	}

	reply, err := j.ask(ctx, fmt.Sprintf(statementPrompt, instruction, strings.Join(contexts, "\n\n"), numbered.String()))
	if err != nil {
		return 0, false, err
	}

	verdicts := reply.Get("verdicts.#.verdict").Array()
	if len(verdicts) != len(statements) {
		return 0, false, fmt.Errorf("%w: %d verdicts for %d statements", ErrMalformedVerdict, len(verdicts), len(statements))
	}

	accepted := 0
	for _, v := range verdicts {
		if verdict(v) {
			accepted++
		}
	}
	return float64(accepted) / float64(len(statements)), true, nil
}

// contextPrecision is the average precision of the contexts in rank order,
// each judged useful or not for the reference.
func (j *LLMJudge) contextPrecision(ctx context.Context, sample Sample) (float64, bool, error) {
	if len(sample.Contexts) == 0 {
		return 0, false, nil
	}

	useful := make([]bool, len(sample.Contexts))
	for i, c := range sample.Contexts {
		reply, err := j.ask(ctx, fmt.Sprintf(precisionPrompt, sample.Question, sample.Reference, c))
		if err != nil {
			return 0, false, err
		}
		v := reply.Get("verdict")
		if !v.Exists() {
			return 0, false, fmt.Errorf("%w: missing verdict for context %d", ErrMalformedVerdict, i+1)
		}
		useful[i] = verdict(v)
	}
	return averagePrecision(useful), true, nil
}

func averagePrecision(useful []bool) float64 {
	var sum float64
	hits := 0
	for i, u := range useful {
		if !u {
			continue
		}
		hits++
		sum += float64(hits) / float64(i+1)
	}
	if hits == 0 {
		return 0
	}
	return sum / float64(hits)
}

// answerRelevancy generates questions from the answer and compares them with
// the asked question. Noncommittal answers score zero.
func (j *LLMJudge) answerRelevancy(ctx context.Context, sample Sample) (float64, bool, error) {
	if strings.TrimSpace(sample.Answer) == "" {
		return 0, false, nil
	}

	reply, err := j.ask(ctx, fmt.Sprintf(relevancyPrompt, j.questions, sample.Answer))
	if err != nil {
		return 0, false, err
	}

	var generated []string
	for _, q := range reply.Get("questions").Array() {
		if s := strings.TrimSpace(q.String()); s != "" {
			generated = append(generated, s)
		}
	}
	if len(generated) == 0 {
		return 0, false, fmt.Errorf("%w: no generated questions", ErrMalformedVerdict)
	}
	if verdict(reply.Get("noncommittal")) {
		return 0, true, nil
	}

	vectors, err := j.embedder.BatchEmbedding(ctx, append([]string{sample.Question}, generated...))
	if err != nil {
		return 0, false, err
	}
	if len(vectors) != len(generated)+1 {
		return 0, false, fmt.Errorf("expected %d vectors, got %d", len(generated)+1, len(vectors))
	}

	var sum float64
	for _, v := range vectors[1:] {
		sum += cosine(vectors[0], v)
	}
	return sum / float64(len(generated)), true, nil
}

func (j *LLMJudge) ask(ctx context.Context, prompt string) (gjson.Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EvaluationCallTimeout)
	defer cancel()

	out, err := j.chat.Generate(callCtx, []ragModel.ChatTurn{
		{Role: ragModel.RoleSystem, Content: judgeSystemPrompt},
		{Role: ragModel.RoleUser, Content: prompt},
	})
	if err != nil {
		return gjson.Result{}, err
	}

	body := extractJSON(out)
	if !gjson.Valid(body) {
		return gjson.Result{}, fmt.Errorf("%w: %q", ErrMalformedVerdict, preview(out))
	}
	return gjson.Parse(body), nil
}

// extractJSON cuts the outermost object out of a reply that may carry code
// fences or chatter around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// verdict accepts 1, true, "1", "yes" and "true".
func verdict(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num >= 0.5
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "1", "yes", "true":
			return true
		}
	}
	return false
}

var sentenceTerminators = "。！？"

// Sentences segments text with the prose tokenizer and additionally breaks on
// full-width terminators, which the English model does not know.
func Sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	doc, err := prose.NewDocument(text, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		parts = []string{text}
	} else {
		for _, s := range doc.Sentences() {
			parts = append(parts, s.Text)
		}
	}

	var out []string
	for _, p := range parts {
		for _, s := range splitKeepTerminator(p) {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func splitKeepTerminator(s string) []string {
	var out []string
	var current strings.Builder
	for _, r := range s {
		current.WriteRune(r)
		if strings.ContainsRune(sentenceTerminators, r) {
			out = append(out, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
