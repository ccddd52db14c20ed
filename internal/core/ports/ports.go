package ports

import (
	"context"
	"io"

	"github.com/4f71/mentormate/internal/core/domain"
)

// Embedder builds vectors for FAQ records and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore persists documents at a named collection and performs
// similarity search with maximal-marginal-relevance re-ranking.
type VectorStore interface {
	AddDocuments(ctx context.Context, docs []domain.Document, vectors [][]float32) error
	SearchMMR(ctx context.Context, queryVector []float32, k, fetchK int, lambda float64) (domain.RetrievalResult, error)
}

// TextGenerator is the language-model service. Stateless per call; no
// determinism guaranteed even at near-zero temperature.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Retriever expands one query into several searches and fuses results.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (domain.RetrievalResult, error)
}

// ObjectStorage stores raw uploaded FAQ source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// FAQFileRepository persists and reads source-file state.
type FAQFileRepository interface {
	Create(ctx context.Context, file *domain.FAQFile) error
	GetByID(ctx context.Context, id string) (*domain.FAQFile, error)
	UpdateStatus(ctx context.Context, id string, status domain.FAQFileStatus, errMessage string) error
	SaveCounts(ctx context.Context, id string, records, skipped int) error
}

// MessageQueue publishes/consumes FAQ-file ingestion events.
type MessageQueue interface {
	PublishFAQFileIngested(ctx context.Context, fileID string) error
	SubscribeFAQFileIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// RecordParser reads line-delimited FAQ records, skipping malformed
// lines. Returns parsed records and the number of skipped lines.
type RecordParser interface {
	Parse(r io.Reader) ([]domain.FAQRecord, int, error)
}

// TurnLog records answered questions for session statistics and audit.
type TurnLog interface {
	AppendTurn(ctx context.Context, turn domain.ChatTurn) error
	CountTurns(ctx context.Context) (int, error)
}
