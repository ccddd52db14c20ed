package ports

import (
	"context"
	"io"

	"github.com/4f71/mentormate/internal/core/domain"
)

// Assistant is the caller-facing contract consumed by the chat surface.
type Assistant interface {
	Answer(ctx context.Context, sessionID, question string) (*domain.PipelineResponse, error)
	ClearMemory(sessionID string)
	Stats(ctx context.Context) map[string]string
}

// FAQIngestor is the inbound contract for source-file upload.
type FAQIngestor interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.FAQFile, error)
}

// FAQIndexer is the inbound contract for asynchronous file indexing.
type FAQIndexer interface {
	IndexByID(ctx context.Context, fileID string) error
}
