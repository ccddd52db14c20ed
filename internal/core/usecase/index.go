package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/4f71/mentormate/internal/core/domain"
	"github.com/4f71/mentormate/internal/core/ports"
)

type IndexFAQFileUseCase struct {
	repo     ports.FAQFileRepository
	storage  ports.ObjectStorage
	parser   ports.RecordParser
	embedder ports.Embedder
	vectorDB ports.VectorStore
}

func NewIndexFAQFileUseCase(
	repo ports.FAQFileRepository,
	storage ports.ObjectStorage,
	parser ports.RecordParser,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *IndexFAQFileUseCase {
	return &IndexFAQFileUseCase{
		repo:     repo,
		storage:  storage,
		parser:   parser,
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

// IndexByID runs the full indexing pipeline for one uploaded file:
// parse, embed, store. A failure anywhere marks the file failed with
// the causing error; per-line parse problems only increment the
// skipped counter.
func (uc *IndexFAQFileUseCase) IndexByID(ctx context.Context, fileID string) error {
	if err := uc.markStatus(ctx, fileID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	records, skipped, err := uc.indexPipeline(ctx, fileID)
	if err != nil {
		if failErr := uc.markFailed(ctx, fileID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveCounts(ctx, fileID, records, skipped); err != nil {
		return fmt.Errorf("save record counts: %w", err)
	}

	if err := uc.markStatus(ctx, fileID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	return nil
}

func (uc *IndexFAQFileUseCase) indexPipeline(ctx context.Context, fileID string) (int, int, error) {
	file, err := uc.repo.GetByID(ctx, fileID)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch file by id: %w", err)
	}

	records, skipped, err := uc.parse(ctx, file)
	if err != nil {
		return 0, 0, err
	}

	docs := make([]domain.Document, 0, len(records))
	texts := make([]string, 0, len(records))
	for _, record := range records {
		doc := record.Document(file.Filename)
		docs = append(docs, doc)
		texts = append(texts, doc.Content)
	}

	vectors, err := uc.embed(ctx, texts)
	if err != nil {
		return 0, 0, err
	}

	if err := uc.vectorDB.AddDocuments(ctx, docs, vectors); err != nil {
		return 0, 0, fmt.Errorf("index documents in vector db: %w", err)
	}

	return len(records), skipped, nil
}

func (uc *IndexFAQFileUseCase) parse(ctx context.Context, file *domain.FAQFile) ([]domain.FAQRecord, int, error) {
	body, err := uc.storage.Open(ctx, file.StoragePath)
	if err != nil {
		return nil, 0, fmt.Errorf("open stored file: %w", err)
	}
	defer body.Close()

	records, skipped, err := uc.parser.Parse(body)
	if err != nil {
		return nil, 0, fmt.Errorf("parse records: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, domain.WrapError(domain.ErrNoRecords, "parse records", errors.New("no valid records in file"))
	}
	return records, skipped, nil
}

func (uc *IndexFAQFileUseCase) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed records: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed records",
			fmt.Errorf("vectors/records mismatch: %d/%d", len(vectors), len(texts)),
		)
	}
	return vectors, nil
}

func (uc *IndexFAQFileUseCase) markStatus(ctx context.Context, fileID string, status domain.FAQFileStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, fileID, status, errMessage)
}

func (uc *IndexFAQFileUseCase) markFailed(ctx context.Context, fileID string, indexErr error) error {
	if indexErr == nil {
		return nil
	}
	return uc.markStatus(ctx, fileID, domain.StatusFailed, indexErr.Error())
}
