package rag_test

import (
	"context"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/evaluation"
)

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
	BatchCalls       int
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	m.BatchCalls++
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{1, 0}, nil
}

// MockLLM implements llm.Provider and keeps the last prompt it saw.
type MockLLM struct {
	OnGenerate func(ctx context.Context, messages []ragModel.ChatTurn) (string, error)
	Last       []ragModel.ChatTurn
}

func (m *MockLLM) Generate(ctx context.Context, messages []ragModel.ChatTurn) (string, error) {
	m.Last = messages
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, messages)
	}
	return "mocked llm response", nil
}

// MockEvaluator implements evaluation.Evaluator
type MockEvaluator struct {
	OnEvaluate func(ctx context.Context, sample evaluation.Sample, metrics []evaluation.Metric) (evaluation.Scores, error)
}

func (m *MockEvaluator) Evaluate(ctx context.Context, sample evaluation.Sample, metrics []evaluation.Metric) (evaluation.Scores, error) {
	if m.OnEvaluate != nil {
		return m.OnEvaluate(ctx, sample, metrics)
	}
	return evaluation.Scores{}, nil
}
