package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/4f71/mentormate/internal/core/domain"
)

// TurnRepository is the append-only audit log of answered questions.
type TurnRepository struct {
	db *sql.DB
}

func NewTurnRepository(db *sql.DB) *TurnRepository {
	return &TurnRepository{db: db}
}

func (r *TurnRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082802)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS chat_turns (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	category TEXT NOT NULL,
	grounded BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_turns_session ON chat_turns(session_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *TurnRepository) AppendTurn(ctx context.Context, turn domain.ChatTurn) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO chat_turns (id, session_id, question, answer, category, grounded, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		turn.ID, turn.SessionID, turn.Question, turn.Answer, string(turn.Category), turn.Grounded, turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat turn: %w", err)
	}
	return nil
}

func (r *TurnRepository) CountTurns(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_turns`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count chat turns: %w", err)
	}
	return count, nil
}
