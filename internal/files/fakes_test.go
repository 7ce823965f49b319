package files

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// fakeStore is an in-memory Store. Function fields override the default behaviour.
type fakeStore struct {
	mu   sync.Mutex
	rows map[string]*FileRecord

	getFn    func(ctx context.Context, serialCode string) (*FileRecord, error)
	createFn func(ctx context.Context, rec *FileRecord) (*FileRecord, error)

	creates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]*FileRecord{}}
}

func (f *fakeStore) GetBySerialCode(ctx context.Context, serialCode string) (*FileRecord, error) {
	if f.getFn != nil {
		return f.getFn(ctx, serialCode)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.rows[serialCode]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) Create(ctx context.Context, rec *FileRecord) (*FileRecord, error) {
	f.mu.Lock()
	f.creates++
	f.mu.Unlock()
	if f.createFn != nil {
		return f.createFn(ctx, rec)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[rec.SerialCode]; ok {
		return nil, ErrDuplicateSerialCode
	}
	cp := *rec
	cp.ID = "row-" + rec.SerialCode
	f.rows[rec.SerialCode] = &cp
	out := cp
	return &out, nil
}

// fakeObjects is an in-memory storage.Storage recording every mutation.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	uploadFn func(key string) error
	urlFn    func(key string) (string, error)
	removeFn func(keys []string) error

	uploads int
	removed []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	f.mu.Lock()
	f.uploads++
	f.mu.Unlock()
	if f.uploadFn != nil {
		if err := f.uploadFn(key); err != nil {
			return err
		}
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeObjects) PublicURL(key string) (string, error) {
	if f.urlFn != nil {
		return f.urlFn(key)
	}
	return "http://objects.test/uploads/" + key, nil
}

func (f *fakeObjects) Remove(_ context.Context, keys ...string) error {
	f.mu.Lock()
	f.removed = append(f.removed, keys...)
	f.mu.Unlock()
	if f.removeFn != nil {
		if err := f.removeFn(keys); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.objects, k)
	}
	return nil
}

func (f *fakeObjects) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeObjects) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads + len(f.removed)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
