package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings are the tunables that may be overridden by a YAML file and the environment.
type Settings struct {
	Production   bool            `yaml:"production"`
	LogLevel     string          `yaml:"log_level"`
	ListenAddr   string          `yaml:"listen_addr"`
	IndexBackend string          `yaml:"index_backend"`
	Chunking     ChunkingConfig  `yaml:"chunking"`
	Retrieval    RetrievalConfig `yaml:"retrieval"`
	Session      SessionConfig   `yaml:"session"`
	Redis        RedisConfig     `yaml:"redis"`
	Qdrant       QdrantConfig    `yaml:"qdrant"`
}

type ChunkingConfig struct {
	Size       int `yaml:"size"`
	Overlap    int `yaml:"overlap"`
	BatchLimit int `yaml:"batch_limit"`
}

type RetrievalConfig struct {
	K              int     `yaml:"k"`
	ScoreThreshold float64 `yaml:"score_threshold"`
}

type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Disabled bool   `yaml:"disabled"`
}

type QdrantConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
	UseTLS bool   `yaml:"use_tls"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

func DefaultSettings() Settings {
	return Settings{
		LogLevel:     "debug",
		ListenAddr:   ServerListenAddr,
		IndexBackend: IndexBackendMemory,
		Chunking:     ChunkingConfig{Size: ChunkSize, Overlap: ChunkOverlap, BatchLimit: EmbeddingBatchLimit},
		Retrieval:    RetrievalConfig{K: DefaultTopK, ScoreThreshold: DefaultScoreThreshold},
		Session:      SessionConfig{TTLMinutes: int(SessionTTL / time.Minute)},
		Redis:        RedisConfig{Addr: RedisAddr},
		Qdrant:       QdrantConfig{Host: QdrantHost, Port: QdrantGrpcPort, UseTLS: QdrantUseTLS},
	}
}

// LoadSettings starts from the defaults, applies the YAML file at path when it
// exists and finally the environment.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("reading settings file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parsing settings file: %w", err)
			}
		}
	}
	applyEnv(&s)
	return s, s.Validate()
}

func applyEnv(s *Settings) {
	if os.Getenv("APP_ENV") == "production" {
		s.Production = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("INDEX_BACKEND"); v != "" {
		s.IndexBackend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		s.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		s.Redis.Password = v
	}
	if v := os.Getenv("QDRANT_HOST"); v != "" {
		s.Qdrant.Host = v
	}
	if port, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		s.Qdrant.Port = port
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		s.Qdrant.APIKey = v
	}
}

func (s Settings) Validate() error {
	if s.Chunking.Size <= 0 || s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("invalid chunking: size=%d overlap=%d", s.Chunking.Size, s.Chunking.Overlap)
	}
	if s.Chunking.BatchLimit <= 0 {
		return fmt.Errorf("invalid embedding batch limit %d", s.Chunking.BatchLimit)
	}
	if s.Retrieval.K < MinTopK || s.Retrieval.K > MaxTopK {
		return fmt.Errorf("retrieval k must be within [%d, %d], got %d", MinTopK, MaxTopK, s.Retrieval.K)
	}
	if s.IndexBackend != IndexBackendMemory && s.IndexBackend != IndexBackendQdrant {
		return fmt.Errorf("unknown index backend %q", s.IndexBackend)
	}
	if s.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}
