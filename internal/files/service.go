package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/filevault/service/internal/storage"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filevault_uploads_total",
		Help: "Upload attempts by outcome.",
	}, []string{"outcome"})

	retrievalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filevault_retrievals_total",
		Help: "Retrieval attempts by outcome.",
	}, []string{"outcome"})

	cleanupFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filevault_cleanup_failures_total",
		Help: "Uploaded objects that could not be removed after a failed upload.",
	})
)

// Service contains the upload and retrieval logic.
type Service struct {
	store   Store
	objects storage.Storage
	logger  *slog.Logger
}

// NewService creates a new files Service.
func NewService(store Store, objects storage.Storage, logger *slog.Logger) *Service {
	return &Service{store: store, objects: objects, logger: logger}
}

// Upload stores the file bytes and its metadata row. See upload.go.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*FileRecord, error) {
	rec, err := s.runUpload(ctx, in)
	uploadsTotal.WithLabelValues(outcome(err)).Inc()
	return rec, err
}

// SecurityQuestion returns the question stored for serialCode.
func (s *Service) SecurityQuestion(ctx context.Context, serialCode string) (string, error) {
	if serialCode == "" {
		return "", ErrMissingData
	}
	rec, err := s.store.GetBySerialCode(ctx, serialCode)
	if errors.Is(err, ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return rec.SecurityQuestion, nil
}

// Retrieve checks answer against the stored digest and returns the download URL.
// There is no attempt limit.
func (s *Service) Retrieve(ctx context.Context, serialCode, answer string) (*Retrieval, error) {
	r, err := s.retrieve(ctx, serialCode, answer)
	retrievalsTotal.WithLabelValues(outcome(err)).Inc()
	return r, err
}

func (s *Service) retrieve(ctx context.Context, serialCode, answer string) (*Retrieval, error) {
	if serialCode == "" || answer == "" {
		return nil, ErrMissingData
	}

	rec, err := s.store.GetBySerialCode(ctx, serialCode)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidSerialCode
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if !AnswerMatches(answer, rec.HashedAnswer) {
		s.logger.Info("security answer mismatch", slog.String("serial_code", serialCode))
		return nil, ErrIncorrectAnswer
	}

	return &Retrieval{DownloadURL: rec.FilePath, OriginalFilename: rec.OriginalFilename}, nil
}

// outcome is the metrics label for a service result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingData), errors.Is(err, ErrUnsupportedFileType):
		return "invalid"
	case errors.Is(err, ErrDuplicateSerialCode):
		return "duplicate"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, ErrUploadFailed):
		return "upload_failed"
	case errors.Is(err, ErrMetadataWriteFailed):
		return "metadata_failed"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidSerialCode):
		return "not_found"
	case errors.Is(err, ErrIncorrectAnswer):
		return "incorrect_answer"
	default:
		return "error"
	}
}
