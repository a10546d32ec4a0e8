package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var ErrIncompleteBackend = errors.New("backend configuration is incomplete")

// Endpoint is one remote model deployment.
type Endpoint struct {
	Endpoint   string `json:"endpoint"`
	APIKey     string `json:"api_key"`
	APIVersion string `json:"api_version"`
	Deployment string `json:"deployment"`
}

// Backends holds the embedding and chat endpoints. Both must be configured
// independently before retrieval-augmented answering is available.
type Backends struct {
	Provider  string   `json:"provider"`
	Embedding Endpoint `json:"embedding"`
	Chat      Endpoint `json:"chat"`
}

const (
	envEmbeddingEndpoint   = "AZURE_OPENAI_EMBEDDING_ENDPOINT"
	envEmbeddingAPIKey     = "AZURE_OPENAI_EMBEDDING_API_KEY"
	envEmbeddingAPIVersion = "AZURE_OPENAI_EMBEDDING_API_VERSION"
	envEmbeddingDeployment = "AZURE_OPENAI_EMBEDDING_DEPLOYMENT_NAME"
	envChatEndpoint        = "AZURE_OPENAI_CHAT_ENDPOINT"
	envChatAPIKey          = "AZURE_OPENAI_CHAT_API_KEY"
	envChatAPIVersion      = "AZURE_OPENAI_CHAT_API_VERSION"
	envChatDeployment      = "AZURE_OPENAI_CHAT_DEPLOYMENT_NAME"

	envProvider             = "LLM_PROVIDER"
	envGeminiAPIKey         = "GEMINI_API_KEY"
	envGeminiChatModel      = "GEMINI_CHAT_MODEL"
	envGeminiEmbeddingModel = "GEMINI_EMBEDDING_MODEL"
)

// LoadEnv reads a .env file from the working directory if one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

// BackendsFromEnv reads the backend parameters from the environment.
func BackendsFromEnv() Backends {
	provider := strings.ToLower(os.Getenv(envProvider))
	if provider == ProviderGemini {
		key := os.Getenv(envGeminiAPIKey)
		return Backends{
			Provider:  ProviderGemini,
			Embedding: Endpoint{APIKey: key, Deployment: envOr(envGeminiEmbeddingModel, GeminiEmbeddingModel)},
			Chat:      Endpoint{APIKey: key, Deployment: envOr(envGeminiChatModel, GeminiChatModel)},
		}
	}

	return Backends{
		Provider: ProviderAzure,
		Embedding: Endpoint{
			Endpoint:   os.Getenv(envEmbeddingEndpoint),
			APIKey:     os.Getenv(envEmbeddingAPIKey),
			APIVersion: os.Getenv(envEmbeddingAPIVersion),
			Deployment: os.Getenv(envEmbeddingDeployment),
		},
		Chat: Endpoint{
			Endpoint:   os.Getenv(envChatEndpoint),
			APIKey:     os.Getenv(envChatAPIKey),
			APIVersion: os.Getenv(envChatAPIVersion),
			Deployment: os.Getenv(envChatDeployment),
		},
	}
}

// Missing lists the parameters that still need a value.
func (b Backends) Missing() []string {
	var missing []string
	add := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	if b.Provider == ProviderGemini {
		add(envGeminiAPIKey, b.Chat.APIKey)
		add(envGeminiEmbeddingModel, b.Embedding.Deployment)
		add(envGeminiChatModel, b.Chat.Deployment)
		return missing
	}

	add(envEmbeddingEndpoint, b.Embedding.Endpoint)
	add(envEmbeddingAPIKey, b.Embedding.APIKey)
	add(envEmbeddingAPIVersion, b.Embedding.APIVersion)
	add(envEmbeddingDeployment, b.Embedding.Deployment)
	add(envChatEndpoint, b.Chat.Endpoint)
	add(envChatAPIKey, b.Chat.APIKey)
	add(envChatAPIVersion, b.Chat.APIVersion)
	add(envChatDeployment, b.Chat.Deployment)
	return missing
}

func (b Backends) Validate() error {
	if b.Provider != ProviderAzure && b.Provider != ProviderGemini {
		return fmt.Errorf("%w: unknown provider %q", ErrIncompleteBackend, b.Provider)
	}
	if missing := b.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteBackend, strings.Join(missing, ", "))
	}
	return nil
}

// Redacted hides the API keys so the configuration can be echoed back.
func (b Backends) Redacted() Backends {
	b.Embedding.APIKey = mask(b.Embedding.APIKey)
	b.Chat.APIKey = mask(b.Chat.APIKey)
	return b
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
