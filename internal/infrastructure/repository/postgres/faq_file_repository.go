package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/4f71/mentormate/internal/core/domain"
)

type FAQFileRepository struct {
	db *sql.DB
}

func NewFAQFileRepository(db *sql.DB) *FAQFileRepository {
	return &FAQFileRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *FAQFileRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/indexer startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS faq_files (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	record_count INTEGER NOT NULL DEFAULT 0,
	skipped_count INTEGER NOT NULL DEFAULT 0,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_faq_files_status ON faq_files(status);
CREATE INDEX IF NOT EXISTS idx_faq_files_created_at ON faq_files(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *FAQFileRepository) Create(ctx context.Context, file *domain.FAQFile) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO faq_files (
	id, filename, storage_path, status, record_count, skipped_count, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		file.ID, file.Filename, file.StoragePath, string(file.Status),
		file.RecordCount, file.SkippedCount, file.Error, file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert faq file: %w", err)
	}
	return nil
}

func (r *FAQFileRepository) GetByID(ctx context.Context, id string) (*domain.FAQFile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, storage_path, status, record_count, skipped_count, error_message, created_at, updated_at
FROM faq_files
WHERE id = $1
`, id)

	var file domain.FAQFile
	var status string

	err := row.Scan(
		&file.ID, &file.Filename, &file.StoragePath, &status,
		&file.RecordCount, &file.SkippedCount, &file.Error, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrFileNotFound, "get faq file", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan faq file: %w", err)
	}

	file.Status = domain.FAQFileStatus(status)
	return &file, nil
}

func (r *FAQFileRepository) UpdateStatus(ctx context.Context, id string, status domain.FAQFileStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE faq_files
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update faq file status: %w", err)
	}
	return r.requireRow(result, "update faq file status", id)
}

func (r *FAQFileRepository) SaveCounts(ctx context.Context, id string, records, skipped int) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE faq_files
SET record_count = $2, skipped_count = $3, updated_at = $4
WHERE id = $1
`, id, records, skipped, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save faq file counts: %w", err)
	}
	return r.requireRow(result, "save faq file counts", id)
}

func (r *FAQFileRepository) requireRow(result sql.Result, operation, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrFileNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}
