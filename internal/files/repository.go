package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the metadata store the service reads and writes.
type Store interface {
	GetBySerialCode(ctx context.Context, serialCode string) (*FileRecord, error)
	Create(ctx context.Context, rec *FileRecord) (*FileRecord, error)
}

// Repository handles all files table operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new row and returns it with the store-assigned id and upload time.
func (r *Repository) Create(ctx context.Context, rec *FileRecord) (*FileRecord, error) {
	out := &FileRecord{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO files (serial_code, security_question, hashed_answer, file_path, original_filename)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, serial_code, security_question, hashed_answer, file_path, original_filename, uploaded_at`,
		rec.SerialCode, rec.SecurityQuestion, rec.HashedAnswer, rec.FilePath, rec.OriginalFilename,
	).Scan(&out.ID, &out.SerialCode, &out.SecurityQuestion, &out.HashedAnswer, &out.FilePath, &out.OriginalFilename, &out.UploadedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSerialCode
		}
		return nil, fmt.Errorf("insert file: %w", err)
	}
	return out, nil
}

// GetBySerialCode fetches the row for a serial code.
func (r *Repository) GetBySerialCode(ctx context.Context, serialCode string) (*FileRecord, error) {
	out := &FileRecord{}
	err := r.db.QueryRow(ctx,
		`SELECT id, serial_code, security_question, hashed_answer, file_path, original_filename, uploaded_at
		 FROM files WHERE serial_code = $1`,
		serialCode,
	).Scan(&out.ID, &out.SerialCode, &out.SecurityQuestion, &out.HashedAnswer, &out.FilePath, &out.OriginalFilename, &out.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file by serial code: %w", err)
	}
	return out, nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
