package files

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestService(store Store, objects *fakeObjects) *Service {
	return NewService(store, objects, discardLogger())
}

func reportUpload() UploadInput {
	body := "%PDF-1.4 report"
	return UploadInput{
		SerialCode:       "SN123",
		SecurityQuestion: "What city?",
		SecurityAnswer:   "Paris",
		Filename:         "report.pdf",
		ContentType:      "application/pdf",
		Size:             int64(len(body)),
		Body:             strings.NewReader(body),
	}
}

func TestUpload_Success(t *testing.T) {
	store := newFakeStore()
	objects := newFakeObjects()
	svc := newTestService(store, objects)

	rec, err := svc.Upload(context.Background(), reportUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if !strings.Contains(rec.FilePath, "SN123/report.pdf") {
		t.Errorf("FilePath = %q, want it to contain SN123/report.pdf", rec.FilePath)
	}
	if rec.HashedAnswer != HashAnswer("Paris") {
		t.Errorf("HashedAnswer = %q", rec.HashedAnswer)
	}
	if rec.HashedAnswer == "Paris" {
		t.Error("plaintext answer stored")
	}
	if rec.OriginalFilename != "report.pdf" {
		t.Errorf("OriginalFilename = %q", rec.OriginalFilename)
	}
	if string(objects.objects["SN123/report.pdf"]) != "%PDF-1.4 report" {
		t.Errorf("stored bytes = %q", objects.objects["SN123/report.pdf"])
	}
	if objects.types["SN123/report.pdf"] != "application/pdf" {
		t.Errorf("content type = %q", objects.types["SN123/report.pdf"])
	}
	if len(objects.removed) != 0 {
		t.Errorf("unexpected removals %v", objects.removed)
	}
}

func TestUpload_SanitizesFilenameAndDefaultsContentType(t *testing.T) {
	store := newFakeStore()
	objects := newFakeObjects()
	svc := newTestService(store, objects)

	in := reportUpload()
	in.Filename = "../My Report.pdf"
	in.ContentType = ""

	rec, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.OriginalFilename != "My_Report.pdf" {
		t.Errorf("OriginalFilename = %q", rec.OriginalFilename)
	}
	if objects.types["SN123/My_Report.pdf"] != "application/octet-stream" {
		t.Errorf("content type = %q", objects.types["SN123/My_Report.pdf"])
	}
}

func TestUpload_RejectsBeforeAnyStoreCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UploadInput)
		want   error
	}{
		{"disallowed extension", func(in *UploadInput) { in.Filename = "malware.exe" }, ErrUnsupportedFileType},
		{"missing answer", func(in *UploadInput) { in.SecurityAnswer = "" }, ErrMissingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.getFn = func(context.Context, string) (*FileRecord, error) {
				t.Error("metadata store queried")
				return nil, ErrNotFound
			}
			objects := newFakeObjects()
			svc := newTestService(store, objects)

			in := reportUpload()
			tt.mutate(&in)
			if _, err := svc.Upload(context.Background(), in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if objects.mutations() != 0 || store.creates != 0 {
				t.Error("store mutated")
			}
		})
	}
}

func TestUpload_FilenameReducedToExtension(t *testing.T) {
	objects := newFakeObjects()
	svc := newTestService(newFakeStore(), objects)

	in := reportUpload()
	in.Filename = "文件.pdf"
	rec, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.OriginalFilename != "pdf" {
		t.Errorf("OriginalFilename = %q, want pdf", rec.OriginalFilename)
	}
	if !objects.has("SN123/pdf") {
		t.Error("object not stored under sanitized key")
	}
}

func TestUpload_DuplicateSerialCode(t *testing.T) {
	store := newFakeStore()
	objects := newFakeObjects()
	svc := newTestService(store, objects)

	if _, err := svc.Upload(context.Background(), reportUpload()); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	before := objects.mutations()

	in := reportUpload()
	in.Filename = "other.txt"
	if _, err := svc.Upload(context.Background(), in); !errors.Is(err, ErrDuplicateSerialCode) {
		t.Fatalf("err = %v, want ErrDuplicateSerialCode", err)
	}
	if objects.mutations() != before {
		t.Error("duplicate upload mutated the object store")
	}
}

func TestUpload_UniquenessQueryFails(t *testing.T) {
	store := newFakeStore()
	store.getFn = func(context.Context, string) (*FileRecord, error) {
		return nil, errors.New("connection refused")
	}
	objects := newFakeObjects()
	svc := newTestService(store, objects)

	_, err := svc.Upload(context.Background(), reportUpload())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	if objects.mutations() != 0 {
		t.Error("object store touched")
	}
}

// Failure injection at each transition after the uniqueness check.
func TestUpload_FailureInjection(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*fakeStore, *fakeObjects)
		want        error
		wantRemoved bool
	}{
		{
			name: "object upload fails",
			setup: func(_ *fakeStore, o *fakeObjects) {
				o.uploadFn = func(string) error { return errors.New("bucket read-only") }
			},
			want:        ErrUploadFailed,
			wantRemoved: false,
		},
		{
			name: "public url unavailable",
			setup: func(_ *fakeStore, o *fakeObjects) {
				o.urlFn = func(string) (string, error) { return "", nil }
			},
			want:        ErrUploadFailed,
			wantRemoved: true,
		},
		{
			name: "metadata insert fails",
			setup: func(s *fakeStore, _ *fakeObjects) {
				s.createFn = func(context.Context, *FileRecord) (*FileRecord, error) {
					return nil, errors.New("disk full")
				}
			},
			want:        ErrMetadataWriteFailed,
			wantRemoved: true,
		},
		{
			name: "panic during insert",
			setup: func(s *fakeStore, _ *fakeObjects) {
				s.createFn = func(context.Context, *FileRecord) (*FileRecord, error) {
					panic("driver bug")
				}
			},
			want:        ErrUploadError,
			wantRemoved: true,
		},
		{
			name: "panic inside object upload",
			setup: func(_ *fakeStore, o *fakeObjects) {
				o.uploadFn = func(string) error { panic("sdk bug") }
			},
			want:        ErrUploadError,
			wantRemoved: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			objects := newFakeObjects()
			tt.setup(store, objects)
			svc := newTestService(store, objects)

			rec, err := svc.Upload(context.Background(), reportUpload())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if rec != nil {
				t.Error("partial success returned a record")
			}

			removed := len(objects.removed) == 1 && objects.removed[0] == "SN123/report.pdf"
			if removed != tt.wantRemoved {
				t.Errorf("removed = %v, want %v (removals %v)", removed, tt.wantRemoved, objects.removed)
			}
			if objects.has("SN123/report.pdf") {
				t.Error("object left behind after failed upload")
			}
			if _, gErr := store.GetBySerialCode(context.Background(), "SN123"); !errors.Is(gErr, ErrNotFound) {
				t.Error("metadata row exists after failed upload")
			}
		})
	}
}

func TestUpload_CleanupFailureIsNotEscalated(t *testing.T) {
	store := newFakeStore()
	store.createFn = func(context.Context, *FileRecord) (*FileRecord, error) {
		return nil, errors.New("insert failed")
	}
	objects := newFakeObjects()
	objects.removeFn = func([]string) error { return errors.New("remove failed") }
	svc := newTestService(store, objects)

	before := testutil.ToFloat64(cleanupFailuresTotal)

	_, err := svc.Upload(context.Background(), reportUpload())
	if !errors.Is(err, ErrMetadataWriteFailed) {
		t.Fatalf("err = %v, want ErrMetadataWriteFailed", err)
	}
	if strings.Contains(err.Error(), "remove failed") {
		t.Errorf("cleanup error leaked into %q", err)
	}
	if got := testutil.ToFloat64(cleanupFailuresTotal) - before; got != 1 {
		t.Errorf("cleanup failures delta = %v, want 1", got)
	}
}

// Two uploads pass the uniqueness check; the loser's insert hits the unique constraint.
func TestUpload_LostRace(t *testing.T) {
	t.Run("same filename keeps winner's object", func(t *testing.T) {
		store := newFakeStore()
		objects := newFakeObjects()
		svc := newTestService(store, objects)

		store.createFn = func(_ context.Context, rec *FileRecord) (*FileRecord, error) {
			cp := *rec
			store.mu.Lock()
			store.rows[rec.SerialCode] = &cp
			store.mu.Unlock()
			return nil, ErrDuplicateSerialCode
		}

		if _, err := svc.Upload(context.Background(), reportUpload()); !errors.Is(err, ErrDuplicateSerialCode) {
			t.Fatalf("err = %v", err)
		}
		if len(objects.removed) != 0 {
			t.Errorf("removed winner's object: %v", objects.removed)
		}
	})

	t.Run("different filename removes own object", func(t *testing.T) {
		store := newFakeStore()
		objects := newFakeObjects()
		svc := newTestService(store, objects)

		store.createFn = func(_ context.Context, rec *FileRecord) (*FileRecord, error) {
			store.mu.Lock()
			store.rows[rec.SerialCode] = &FileRecord{SerialCode: rec.SerialCode, FilePath: "http://objects.test/uploads/SN123/first.txt"}
			store.mu.Unlock()
			return nil, ErrDuplicateSerialCode
		}

		if _, err := svc.Upload(context.Background(), reportUpload()); !errors.Is(err, ErrDuplicateSerialCode) {
			t.Fatalf("err = %v", err)
		}
		if len(objects.removed) != 1 || objects.removed[0] != "SN123/report.pdf" {
			t.Errorf("removals = %v", objects.removed)
		}
	})

	t.Run("unreadable winner keeps object", func(t *testing.T) {
		store := newFakeStore()
		objects := newFakeObjects()
		svc := newTestService(store, objects)

		inserted := false
		store.getFn = func(context.Context, string) (*FileRecord, error) {
			if !inserted {
				return nil, ErrNotFound
			}
			return nil, errors.New("connection reset")
		}
		store.createFn = func(context.Context, *FileRecord) (*FileRecord, error) {
			inserted = true
			return nil, ErrDuplicateSerialCode
		}

		if _, err := svc.Upload(context.Background(), reportUpload()); !errors.Is(err, ErrDuplicateSerialCode) {
			t.Fatalf("err = %v, want ErrDuplicateSerialCode", err)
		}
		if len(objects.removed) != 0 {
			t.Errorf("removed a possibly shared object: %v", objects.removed)
		}
		if !objects.has("SN123/report.pdf") {
			t.Error("object missing after lost race")
		}
	})
}

func TestUploadState_String(t *testing.T) {
	want := []string{"start", "validated", "checked-unique", "uploaded", "url-resolved", "recorded"}
	for i, w := range want {
		if got := uploadState(i).String(); got != w {
			t.Errorf("uploadState(%d) = %q, want %q", i, got, w)
		}
	}
}
