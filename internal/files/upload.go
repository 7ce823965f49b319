package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filevault/service/internal/storage"
)

// uploadState tracks how far an upload got. Every state from uploaded on
// means an object exists in the bucket that must be removed if a later step fails.
type uploadState int

const (
	stateStart uploadState = iota
	stateValidated
	stateCheckedUnique
	stateUploaded
	stateURLResolved
	stateRecorded
)

func (st uploadState) String() string {
	switch st {
	case stateStart:
		return "start"
	case stateValidated:
		return "validated"
	case stateCheckedUnique:
		return "checked-unique"
	case stateUploaded:
		return "uploaded"
	case stateURLResolved:
		return "url-resolved"
	case stateRecorded:
		return "recorded"
	default:
		return fmt.Sprintf("uploadState(%d)", int(st))
	}
}

// upload is one run of the object-then-row write. The two writes are not
// atomic; a failure after the object exists triggers a best-effort removal.
type upload struct {
	svc *Service
	in  UploadInput

	state        uploadState
	hashedAnswer string
	filename     string
	key          string
	url          string
	record       *FileRecord

	// keepObject is set when the object under key belongs to a row this
	// upload did not write.
	keepObject bool
}

func (s *Service) runUpload(ctx context.Context, in UploadInput) (rec *FileRecord, err error) {
	u := &upload{svc: s, in: in}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("upload panicked",
				slog.String("serial_code", in.SerialCode),
				slog.String("state", u.state.String()),
				slog.Any("panic", p),
			)
			if u.key != "" && u.state < stateUploaded {
				// The object store call itself panicked; the object may exist.
				u.state = stateUploaded
			}
			u.compensate(ctx)
			rec, err = nil, fmt.Errorf("%w: %v", ErrUploadError, p)
		}
	}()

	steps := []func(context.Context) error{
		u.validate,
		u.checkUnique,
		u.put,
		u.resolveURL,
		u.insert,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			u.compensate(ctx)
			return nil, err
		}
	}
	return u.record, nil
}

func (u *upload) validate(context.Context) error {
	if err := Validate(u.in); err != nil {
		return err
	}
	u.state = stateValidated
	return nil
}

func (u *upload) checkUnique(ctx context.Context) error {
	_, err := u.svc.store.GetBySerialCode(ctx, u.in.SerialCode)
	switch {
	case err == nil:
		return ErrDuplicateSerialCode
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: check serial code: %w", ErrStoreUnavailable, err)
	}
	u.state = stateCheckedUnique
	return nil
}

func (u *upload) put(ctx context.Context) error {
	u.hashedAnswer = HashAnswer(u.in.SecurityAnswer)
	u.filename = SecureFilename(u.in.Filename)
	if u.filename == "" {
		return ErrMissingData
	}
	u.key = storage.ObjectKey(u.in.SerialCode, u.filename)

	contentType := u.in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := u.svc.objects.Upload(ctx, u.key, u.in.Body, u.in.Size, contentType); err != nil {
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	u.state = stateUploaded
	return nil
}

func (u *upload) resolveURL(context.Context) error {
	url, err := u.svc.objects.PublicURL(u.key)
	if err == nil && url == "" {
		err = storage.ErrNoPublicURL
	}
	if err != nil {
		return fmt.Errorf("%w: resolve public url: %w", ErrUploadFailed, err)
	}
	u.url = url
	u.state = stateURLResolved
	return nil
}

func (u *upload) insert(ctx context.Context) error {
	rec, err := u.svc.store.Create(ctx, &FileRecord{
		SerialCode:       u.in.SerialCode,
		SecurityQuestion: u.in.SecurityQuestion,
		HashedAnswer:     u.hashedAnswer,
		FilePath:         u.url,
		OriginalFilename: u.filename,
	})
	if errors.Is(err, ErrDuplicateSerialCode) {
		// Lost the race to a concurrent upload. If the winner stored the same
		// filename, the object under our key is the one its row points at.
		// When the winner cannot be read the key may be shared, so it stays.
		winner, gErr := u.svc.store.GetBySerialCode(ctx, u.in.SerialCode)
		switch {
		case gErr != nil:
			u.keepObject = true
			u.svc.logger.Warn("keeping object after lost race: winning row unreadable",
				slog.String("key", u.key),
				slog.String("error", gErr.Error()),
			)
		case winner.FilePath == u.url:
			u.keepObject = true
		}
		return ErrDuplicateSerialCode
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMetadataWriteFailed, err)
	}
	u.record = rec
	u.state = stateRecorded
	return nil
}

// compensate removes the uploaded object when the upload stopped between
// uploaded and recorded. Failures are logged and counted, never returned.
func (u *upload) compensate(ctx context.Context) {
	if u.state < stateUploaded || u.state == stateRecorded || u.keepObject {
		return
	}
	if err := u.svc.objects.Remove(context.WithoutCancel(ctx), u.key); err != nil {
		cleanupFailuresTotal.Inc()
		u.svc.logger.Warn("cleanup of uploaded object failed",
			slog.String("key", u.key),
			slog.String("state", u.state.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	u.svc.logger.Info("removed uploaded object after failed upload",
		slog.String("key", u.key),
		slog.String("state", u.state.String()),
	)
}
