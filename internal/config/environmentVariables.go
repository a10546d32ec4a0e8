package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD        = slog.LevelInfo
	TRACE_ID_KEY          = "traceId"
	SESSION_ID_KEY        = "sessionId"
	SESSION_HEADER        = "X-Session-Id"
	RATE_LIMIT_PER_SECOND = 5
	BURST_RATE_LIMIT      = 10
	RateLimiterIdleTTL    = 10 * time.Minute

	//session housekeeping
	SessionTTL           = 2 * time.Hour
	SessionPurgeInterval = 10 * time.Minute

	//chunking
	ChunkSize    = 1000 //characters
	ChunkOverlap = 200

	//ingestion
	MaxUploadSize        = 32 << 20 //32mb
	EmbeddingBatchLimit  = 100000   //cumulative characters per embedding call
	RateLimitBackoff     = 60 * time.Second
	PageExtractTimeout   = 10 * time.Second
	TempUploadFilePrefix = "upload-*.pdf"
	ExtractionWorkers    = 4 //files extracted in parallel

	//retrieval
	DefaultTopK           = 8
	DefaultScoreThreshold = 0.3
	MinTopK               = 1
	MaxTopK               = 20

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 10 * time.Minute //ingestion and scoring block the request
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//vectorDB
	IndexBackendMemory     = "memory"
	IndexBackendQdrant     = "qdrant"
	QdrantHost             = "localhost"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantCollectionPrefix = "session-"

	//llm
	ProviderAzure          = "azure"
	ProviderGemini         = "gemini"
	ModelTemperature       = 0.0
	GeminiChatModel        = "gemini-2.5-flash"
	GeminiEmbeddingModel   = "gemini-embedding-001"
	GeminiEmbeddingDims    = 768
	GeminiMaxBatchContents = 100 //per EmbedContent call
	ProbeEmbeddingText     = "test"
	ProbeCompletionPrompt  = "Hello"
	GenerationTimeout      = 2 * time.Minute
	EvaluationCallTimeout  = 2 * time.Minute
	GeneratedQuestionCount = 3

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisTranscriptStore = 0
	RedisTranscriptTTL   = SessionTTL
)

// Persona is the fixed voice of every answer. It must not change tone.
const Persona = "あなたは質問応答のアシスタントで、質問に対して日本のギャルのように簡単な言葉を使って説明します。絵文字もたくさん使ってください。「ギャル風に答えるね」といった前置きは不要です。いきなりギャルの言葉遣いで回答してください。"

// ContextOnlyInstruction restricts RAG answers to the supplied context.
const ContextOnlyInstruction = "質問に応えるために以下の文脈の情報のみを使用して回答ください。答えがわからない場合はわからないと答えてください。"

// RAGPromptTemplate takes persona, instruction, question and context, in that order.
const RAGPromptTemplate = `%s
%s

質問: %s
文脈: %s

応答:`
