package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/4f71/mentormate/internal/core/domain"
	"github.com/4f71/mentormate/internal/core/ports"
)

type IngestFAQFileUseCase struct {
	repo    ports.FAQFileRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestFAQFileUseCase(
	repo ports.FAQFileRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestFAQFileUseCase {
	return &IngestFAQFileUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Upload persists the raw source file, registers its metadata and
// emits the ingestion event picked up by the indexer.
func (uc *IngestFAQFileUseCase) Upload(ctx context.Context, filename string, body io.Reader) (*domain.FAQFile, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	file := &domain.FAQFile{
		ID:          id,
		Filename:    filename,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("create file metadata: %w", err)
	}

	if err := uc.queue.PublishFAQFileIngested(ctx, file.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return file, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "faq.jsonl"
	}
	return base
}
