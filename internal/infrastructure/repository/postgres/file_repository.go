package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026040102)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS uploaded_files (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	size BIGINT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	progress INT NOT NULL DEFAULT 0,
	loan_id TEXT,
	version INT,
	uploaded_by TEXT,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_uploaded_files_status ON uploaded_files(status);
CREATE INDEX IF NOT EXISTS idx_uploaded_files_created_at ON uploaded_files(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *FileRepository) Create(ctx context.Context, file *domain.UploadedFile) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO uploaded_files (
	id, name, size, mime_type, storage_path, status, progress, loan_id, version, uploaded_by, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`,
		file.ID, file.Name, file.Size, file.MimeType, file.StoragePath, string(file.Status), file.Progress,
		nullableStr(file.LoanID), nullableInt(file.Version), file.UploadedBy, file.ErrorMessage,
		file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "insert file", err)
	}
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.UploadedFile, error) {
	row := r.db.QueryRowContext(ctx, fileSelect+` WHERE id = $1`, id)
	file, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapErrorf(domain.ErrFileNotFound, "get file", "id %s", id)
		}
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "get file", err)
	}
	return file, nil
}

func (r *FileRepository) List(ctx context.Context) ([]domain.UploadedFile, error) {
	rows, err := r.db.QueryContext(ctx, fileSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "list files", err)
	}
	defer rows.Close()

	var files []domain.UploadedFile
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "list files", err)
	}
	return files, nil
}

func (r *FileRepository) UpdateStatus(ctx context.Context, id string, status domain.FileStatus, progress int, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE uploaded_files
SET status = $2, progress = $3, error_message = $4, updated_at = $5
WHERE id = $1
`, id, string(status), progress, errMessage, time.Now().UTC())
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "update file status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapErrorf(domain.ErrFileNotFound, "update file status", "id %s", id)
	}
	return nil
}

func (r *FileRepository) LinkLoan(ctx context.Context, id, loanID string, version int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE uploaded_files
SET loan_id = $2, version = $3, updated_at = $4
WHERE id = $1
`, id, loanID, version, time.Now().UTC())
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "link loan", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapErrorf(domain.ErrFileNotFound, "link loan", "id %s", id)
	}
	return nil
}

func (r *FileRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM uploaded_files WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "remove file", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapErrorf(domain.ErrFileNotFound, "remove file", "id %s", id)
	}
	return nil
}

const fileSelect = `
SELECT id, name, size, mime_type, storage_path, status, progress, loan_id, version, uploaded_by, error_message, created_at, updated_at
FROM uploaded_files`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*domain.UploadedFile, error) {
	var file domain.UploadedFile
	var status string
	var loanID sql.NullString
	var version sql.NullInt64

	err := row.Scan(
		&file.ID, &file.Name, &file.Size, &file.MimeType, &file.StoragePath, &status, &file.Progress,
		&loanID, &version, &file.UploadedBy, &file.ErrorMessage, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	file.Status = domain.FileStatus(status)
	file.LoanID = loanID.String
	file.Version = int(version.Int64)
	return &file, nil
}

func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
