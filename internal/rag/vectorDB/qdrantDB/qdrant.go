package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger = logger_i.NewLogger("Qdrant")
var quadrantInstance *qdrant.Client
var initErr error
var once sync.Once

type ClientHolder struct {
	QObj *qdrant.Client
}

// GetQuadrantClient connects once per process; the client is closed when ctx ends.
func GetQuadrantClient(ctx context.Context, cfg config.QdrantConfig) (*ClientHolder, error) {
	once.Do(func() {
		quadrantInstance, initErr = newClient(cfg)
		if initErr == nil {
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if initErr != nil {
		return nil, initErr
	}
	return &ClientHolder{QObj: quadrantInstance}, nil
}

func newClient(cfg config.QdrantConfig) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		APIKey:   cfg.APIKey,
		UseTLS:   cfg.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil, fmt.Errorf("qdrant client: %w", err)
	}
	logger.Info("Qdrant client created", "host", cfg.Host, "port", cfg.Port)
	return client, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
}

// Store is one session's collection. The collection is created lazily with the
// dimension of the first appended batch.
type Store struct {
	client     *qdrant.Client
	collection string
	created    bool
	count      int
}

func (db *ClientHolder) NewStore(sessionId string) *Store {
	return &Store{client: db.QObj, collection: CollectionName(sessionId)}
}

func CollectionName(sessionId string) string {
	return config.QdrantCollectionPrefix + sessionId
}

func (s *Store) Append(ctx context.Context, chunks []ragModel.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	if !s.created {
		if err := createCollection(ctx, s.client, s.collection, uint64(len(vectors[0]))); err != nil {
			return fmt.Errorf("creating collection %s: %w", s.collection, err)
		}
		s.created = true
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = toPoint(chunk, vectors[i])
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	s.count += len(chunks)
	return nil
}

func (s *Store) Query(ctx context.Context, vector []float32, k int, scoreThreshold float64) ([]ragModel.ScoredChunk, error) {
	if !s.created {
		return nil, nil
	}

	result, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		ScoreThreshold: qdrant.PtrOf(float32(scoreThreshold)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying qdrant: %w", err)
	}

	hits := make([]ragModel.ScoredChunk, 0, len(result))
	for _, hit := range result {
		hits = append(hits, ragModel.ScoredChunk{
			Chunk: fromPayload(hit.Payload),
			Score: float64(hit.Score),
		})
	}
	return hits, nil
}

func (s *Store) Count() int {
	return s.count
}

func (s *Store) Drop(ctx context.Context) error {
	if !s.created {
		return nil
	}
	err := s.client.DeleteCollection(ctx, s.collection)
	s.created, s.count = false, 0
	if err != nil {
		return fmt.Errorf("deleting collection %s: %w", s.collection, err)
	}
	return nil
}

func toPoint(chunk ragModel.Chunk, vector []float32) *qdrant.PointStruct {
	return &qdrant.PointStruct{
		Id:      qdrant.NewID(chunk.ChunkId),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]any{
			"content":     chunk.Text,
			"source_file": chunk.SourceFile,
			"page_num":    chunk.Page,
			"chunk_order": chunk.Order,
			"chunk_id":    chunk.ChunkId,
			"byte_size":   chunk.ByteSize,
			"session_id":  chunk.SessionId,
		}),
	}
}

func fromPayload(payload map[string]*qdrant.Value) ragModel.Chunk {
	return ragModel.Chunk{
		ChunkId:    payload["chunk_id"].GetStringValue(),
		Text:       payload["content"].GetStringValue(),
		SourceFile: payload["source_file"].GetStringValue(),
		Page:       int(payload["page_num"].GetIntegerValue()),
		Order:      int(payload["chunk_order"].GetIntegerValue()),
		ByteSize:   payload["byte_size"].GetIntegerValue(),
		SessionId:  payload["session_id"].GetStringValue(),
	}
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}
	if dimension == 0 {
		return errors.New("empty vector")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
