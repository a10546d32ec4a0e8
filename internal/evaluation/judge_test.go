package evaluation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type mockLLM struct {
	OnGenerate func(ctx context.Context, messages []ragModel.ChatTurn) (string, error)
}

func (m *mockLLM) Generate(ctx context.Context, messages []ragModel.ChatTurn) (string, error) {
	return m.OnGenerate(ctx, messages)
}

type mockEmbedder struct {
	vectors map[string][]float32
}

func (m *mockEmbedder) GetEmbedding(_ context.Context, q string) ([]float32, error) {
	return m.vectors[q], nil
}

func (m *mockEmbedder) BatchEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectors[t]
	}
	return out, nil
}

func userPrompt(messages []ragModel.ChatTurn) string {
	return messages[len(messages)-1].Content
}

func TestJudge_Faithfulness(t *testing.T) {
	chat := &mockLLM{OnGenerate: func(_ context.Context, m []ragModel.ChatTurn) (string, error) {
		assert.Equal(t, ragModel.RoleSystem, m[0].Role)
		assert.Contains(t, userPrompt(m), "1. Go is fast.")
		return "```json\n{\"verdicts\":[{\"index\":1,\"verdict\":1},{\"index\":2,\"verdict\":0}]}\n```", nil
	}}
	j := NewLLMJudge(chat, &mockEmbedder{})

	scores, err := j.Evaluate(context.Background(), Sample{
		Question: "q", Answer: "Go is fast. Go was made on Mars.", Contexts: []string{"Go is fast."}, Reference: "x",
	}, []Metric{Faithfulness})
	require.NoError(t, err)
	assert.Equal(t, 0.5, scores[Faithfulness])
}

func TestJudge_VerdictCountMismatch(t *testing.T) {
	chat := &mockLLM{OnGenerate: func(context.Context, []ragModel.ChatTurn) (string, error) {
		return `{"verdicts":[{"verdict":1}]}`, nil
	}}
	j := NewLLMJudge(chat, &mockEmbedder{})

	_, err := j.Evaluate(context.Background(), Sample{Answer: "One. Two.", Reference: "One. Two."}, []Metric{ContextRecall})
	assert.ErrorIs(t, err, ErrMalformedVerdict)
}

func TestJudge_ContextPrecision(t *testing.T) {
	chat := &mockLLM{OnGenerate: func(_ context.Context, m []ragModel.ChatTurn) (string, error) {
		if strings.Contains(userPrompt(m), "Context: useless") {
			return `{"reason":"off topic","verdict":0}`, nil
		}
		return `{"reason":"ok","verdict":"yes"}`, nil
	}}
	j := NewLLMJudge(chat, &mockEmbedder{})

	scores, err := j.Evaluate(context.Background(), Sample{
		Question: "q", Answer: "a", Reference: "a", Contexts: []string{"useless", "good"},
	}, []Metric{ContextPrecision})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, scores[ContextPrecision], 1e-9)
}

func TestJudge_ContextPrecisionWithoutContexts(t *testing.T) {
	j := NewLLMJudge(&mockLLM{OnGenerate: func(context.Context, []ragModel.ChatTurn) (string, error) {
		t.Fatal("judge must not be called")
		return "", nil
	}}, &mockEmbedder{})

	scores, err := j.Evaluate(context.Background(), Sample{Question: "q", Answer: "a"}, []Metric{ContextPrecision})
	require.NoError(t, err)
	_, ok := scores[ContextPrecision]
	assert.False(t, ok)
}

func TestJudge_AnswerRelevancy(t *testing.T) {
	chat := &mockLLM{OnGenerate: func(context.Context, []ragModel.ChatTurn) (string, error) {
		return `{"questions":["g1","g2"],"noncommittal":0}`, nil
	}}
	emb := &mockEmbedder{vectors: map[string][]float32{
		"original": {1, 0},
		"g1":       {1, 0},
		"g2":       {0, 1},
	}}
	j := NewLLMJudge(chat, emb)

	scores, err := j.Evaluate(context.Background(), Sample{Question: "original", Answer: "answer"}, []Metric{AnswerRelevancy})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, scores[AnswerRelevancy], 1e-9)
}

func TestJudge_NoncommittalAnswer(t *testing.T) {
	chat := &mockLLM{OnGenerate: func(context.Context, []ragModel.ChatTurn) (string, error) {
		return `{"questions":["g1"],"noncommittal":1}`, nil
	}}
	j := NewLLMJudge(chat, &mockEmbedder{vectors: map[string][]float32{"q": {1}, "g1": {1}}})

	scores, err := j.Evaluate(context.Background(), Sample{Question: "q", Answer: "わかんない"}, []Metric{AnswerRelevancy})
	require.NoError(t, err)
	assert.Equal(t, 0.0, scores[AnswerRelevancy])
}

func TestJudge_ChatError(t *testing.T) {
	j := NewLLMJudge(&mockLLM{OnGenerate: func(context.Context, []ragModel.ChatTurn) (string, error) {
		return "", errors.New("503")
	}}, &mockEmbedder{})

	_, err := j.Evaluate(context.Background(), Sample{Answer: "A sentence."}, []Metric{Faithfulness})
	assert.Error(t, err)
}

func TestAveragePrecision(t *testing.T) {
	assert.Equal(t, 0.0, averagePrecision([]bool{false, false}))
	assert.Equal(t, 1.0, averagePrecision([]bool{true, true, false}))
	assert.InDelta(t, (1.0/2+2.0/3)/2, averagePrecision([]bool{false, true, true}), 1e-9)
}

func TestVerdict(t *testing.T) {
	parsed := gjson.Parse(`{"a":1,"b":0,"c":true,"d":"Yes","e":"no","f":null}`)
	assert.True(t, verdict(parsed.Get("a")))
	assert.False(t, verdict(parsed.Get("b")))
	assert.True(t, verdict(parsed.Get("c")))
	assert.True(t, verdict(parsed.Get("d")))
	assert.False(t, verdict(parsed.Get("e")))
	assert.False(t, verdict(parsed.Get("f")))
}

func TestSentences(t *testing.T) {
	assert.Equal(t, []string{"Go is fast.", "It compiles quickly."}, Sentences("Go is fast. It compiles quickly."))
	assert.Equal(t, []string{"これはペンです。", "すごい！", "ほんと"}, Sentences("これはペンです。すごい！ほんと"))
	assert.Empty(t, Sentences("   "))
}
