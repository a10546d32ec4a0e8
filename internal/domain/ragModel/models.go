package ragModel

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Page is the text of one PDF page with the metadata of its upload.
type Page struct {
	Text       string `json:"text"`
	PageNumber int    `json:"page_number"`
	SourceFile string `json:"source_file"`
	FileSize   int64  `json:"file_size"`
}

type Chunk struct {
	ChunkId    string `json:"chunk_id"`
	Text       string `json:"text"`
	SourceFile string `json:"source_file"`
	Page       int    `json:"page"`
	Order      int    `json:"order"`
	ByteSize   int64  `json:"byte_size"`
	SessionId  string `json:"session_id"`
}

type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

type SearchParams struct {
	K              int     `json:"k"`
	ScoreThreshold float64 `json:"score_threshold"`
}

type FileInfo struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages"`
}

type FileError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type IndexStats struct {
	HasIndex       bool       `json:"has_index"`
	ProcessedFiles []FileInfo `json:"processed_files"`
	TotalFiles     int        `json:"total_files"`
	TotalChunks    int        `json:"total_chunks"`
}

type IngestReport struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	FileCount  int         `json:"file_count"`
	ChunkCount int         `json:"chunk_count"`
	Files      []FileInfo  `json:"file_info,omitempty"`
	FileErrors []FileError `json:"file_errors,omitempty"`
	Failure    *Failure    `json:"failure,omitempty"`
}

type Answer struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Response    string   `json:"response,omitempty"`
	ContextDocs []Chunk  `json:"context_docs"`
	ContextText string   `json:"context"`
	UsedRAG     bool     `json:"used_rag"`
	Failure     *Failure `json:"failure,omitempty"`
}

// EvaluationRecord is one answered turn. Metric fields stay nil until scored.
type EvaluationRecord struct {
	Timestamp        time.Time `json:"timestamp"`
	Question         string    `json:"question"`
	Answer           string    `json:"answer"`
	Contexts         []string  `json:"contexts"`
	SourceFiles      []string  `json:"source_files"`
	ContextPrecision *float64  `json:"context_precision"`
	ContextRecall    *float64  `json:"context_recall"`
	Faithfulness     *float64  `json:"faithfulness"`
	AnswerRelevancy  *float64  `json:"answer_relevancy"`
	OverallScore     *float64  `json:"overall_score"`
}
