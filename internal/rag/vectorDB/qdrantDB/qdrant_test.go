package qdrantDB

import (
	"context"
	"testing"

	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	chunk := ragModel.Chunk{
		ChunkId:    "0b0e6f0a-2d6c-4a55-9d6e-3f1f3a2b9c11",
		Text:       "本文",
		SourceFile: "a.pdf",
		Page:       3,
		Order:      42,
		ByteSize:   2048,
		SessionId:  "s1",
	}

	point := toPoint(chunk, []float32{0.1, 0.2})
	assert.Equal(t, chunk, fromPayload(point.Payload))
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "session-abc", CollectionName("abc"))
}

func TestStore_EmptyBeforeFirstAppend(t *testing.T) {
	s := (&ClientHolder{}).NewStore("abc")

	hits, err := s.Query(context.Background(), []float32{1}, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NoError(t, s.Drop(context.Background()))
	assert.NoError(t, s.Append(context.Background(), nil, nil))
	assert.Zero(t, s.Count())
}
