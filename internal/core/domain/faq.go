package domain

import (
	"fmt"
	"time"
)

// MetadataSource identifies the ingestion origin of a Document.
const MetadataSource = "source"

// Document is an immutable retrieval unit stored in the vector collection.
// Content carries the formatted "Soru: …\nCevap: …" pair.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type QueryCategory string

const (
	CategoryGreeting       QueryCategory = "greeting"
	CategoryDomainSpecific QueryCategory = "domain_specific"
	CategoryGeneralSafe    QueryCategory = "general_safe"
)

// RetrievalResult is produced fresh per query and never persisted.
// Scores, when present, align index-wise with Documents.
type RetrievalResult struct {
	Documents []Document `json:"documents"`
	Scores    []float64  `json:"scores,omitempty"`
}

// PipelineResponse is the unit returned to the caller. Empty
// SourceDocuments means the answer is not grounded in the knowledge
// base: a greeting, a general-knowledge fallback, or a refusal.
type PipelineResponse struct {
	Answer          string        `json:"answer"`
	SourceDocuments []Document    `json:"source_documents"`
	Category        QueryCategory `json:"category"`
}

type FAQFileStatus string

const (
	StatusUploaded   FAQFileStatus = "uploaded"
	StatusProcessing FAQFileStatus = "processing"
	StatusReady      FAQFileStatus = "ready"
	StatusFailed     FAQFileStatus = "failed"
)

// FAQFile tracks one uploaded line-delimited source file through the
// indexing pipeline.
type FAQFile struct {
	ID           string        `json:"id"`
	Filename     string        `json:"filename"`
	StoragePath  string        `json:"storage_path"`
	Status       FAQFileStatus `json:"status"`
	RecordCount  int           `json:"record_count"`
	SkippedCount int           `json:"skipped_count"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// FAQRecord is one valid line of an ingested source file.
type FAQRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Document formats the record into its retrieval unit, tagged with the
// originating file name.
func (r FAQRecord) Document(source string) Document {
	return Document{
		Content:  fmt.Sprintf("Soru: %s\nCevap: %s", r.Question, r.Answer),
		Metadata: map[string]string{MetadataSource: source},
	}
}

// ChatTurn is one answered question appended to the audit log.
type ChatTurn struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Question  string        `json:"question"`
	Answer    string        `json:"answer"`
	Category  QueryCategory `json:"category"`
	Grounded  bool          `json:"grounded"`
	CreatedAt time.Time     `json:"created_at"`
}
