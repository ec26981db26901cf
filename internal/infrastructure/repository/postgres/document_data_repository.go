package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

// DocumentDataRepository stores per-file analysis working sets and
// chat transcripts. Both live apart from the loan collection and are
// removed together by Clear.
type DocumentDataRepository struct {
	db *sql.DB
}

func NewDocumentDataRepository(db *sql.DB) *DocumentDataRepository {
	return &DocumentDataRepository{db: db}
}

func (r *DocumentDataRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026040103)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS document_data (
	file_id TEXT PRIMARY KEY,
	doc JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id TEXT PRIMARY KEY,
	file_id TEXT NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_file_id ON chat_messages(file_id, created_at ASC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentDataRepository) Put(ctx context.Context, data *domain.DocumentData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal document data: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO document_data (file_id, doc, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (file_id) DO UPDATE SET doc = EXCLUDED.doc
`, data.FileID, raw, data.CreatedAt)
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "put document data", err)
	}
	return nil
}

// Get returns nil without error for an unknown file; callers decide
// whether that is a not-found condition.
func (r *DocumentDataRepository) Get(ctx context.Context, fileID string) (*domain.DocumentData, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT doc
FROM document_data
WHERE file_id = $1
`, fileID)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "get document data", err)
	}

	var data domain.DocumentData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal document data: %w", err)
	}
	return &data, nil
}

func (r *DocumentDataRepository) AppendMessage(ctx context.Context, msg domain.ChatMessage) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO chat_messages (id, file_id, role, content, created_at)
VALUES ($1, $2, $3, $4, $5)
`, msg.ID, msg.FileID, string(msg.Role), msg.Content, msg.CreatedAt)
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "append chat message", err)
	}
	return nil
}

func (r *DocumentDataRepository) Transcript(ctx context.Context, fileID string) ([]domain.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, file_id, role, content, created_at
FROM chat_messages
WHERE file_id = $1
ORDER BY created_at ASC
`, fileID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "load transcript", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var role string
		if err := rows.Scan(&msg.ID, &msg.FileID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		msg.Role = domain.ChatRole(role)
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "load transcript", err)
	}
	return msgs, nil
}

func (r *DocumentDataRepository) Clear(ctx context.Context, fileID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE file_id = $1`, fileID); err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "clear chat messages", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM document_data WHERE file_id = $1`, fileID); err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "clear document data", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear tx: %w", err)
	}
	return nil
}
