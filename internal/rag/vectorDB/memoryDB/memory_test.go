package memoryDB

import (
	"context"
	"testing"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Append(ctx,
		[]ragModel.Chunk{{Text: "east"}, {Text: "north"}, {Text: "north-east"}, {Text: "west"}},
		[][]float32{{1, 0}, {0, 1}, {1, 1}, {-1, 0}},
	))

	hits, err := s.Query(ctx, []float32{1, 0.1}, 3, 0.3)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "east", hits[0].Chunk.Text)
	assert.Equal(t, "north-east", hits[1].Chunk.Text)
	assert.Greater(t, hits[0].Score, hits[1].Score)

	hits, err = s.Query(ctx, []float32{1, 0}, 1, -1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestAppend_Mismatch(t *testing.T) {
	s := New()
	err := s.Append(context.Background(), []ragModel.Chunk{{Text: "a"}}, nil)
	assert.Error(t, err)
	assert.Zero(t, s.Count())
}

func TestQuery_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Append(ctx, []ragModel.Chunk{{Text: "a"}}, [][]float32{{1, 0, 0}}))

	_, err := s.Query(ctx, []float32{1, 0}, 3, 0)
	assert.Error(t, err)
}

func TestDrop(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Append(ctx, []ragModel.Chunk{{Text: "a"}}, [][]float32{{1}}))
	require.NoError(t, s.Drop(ctx))
	require.NoError(t, s.Drop(ctx))
	assert.Zero(t, s.Count())
}
