// Package files stores uploaded files behind a serial code and a security
// question, and hands out their download URL to whoever answers correctly.
package files

import (
	"errors"
	"io"
	"time"
)

// FileRecord is one row of the files table.
type FileRecord struct {
	ID               string    `json:"-"`
	SerialCode       string    `json:"serialCode"`
	SecurityQuestion string    `json:"securityQuestion"`
	HashedAnswer     string    `json:"-"`
	FilePath         string    `json:"fileUrl"`
	OriginalFilename string    `json:"originalFilename"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

// UploadInput is everything a client sends to store one file.
type UploadInput struct {
	SerialCode       string
	SecurityQuestion string
	SecurityAnswer   string
	Filename         string
	ContentType      string
	Size             int64
	Body             io.Reader
}

// Retrieval is the result of a successful answer check.
type Retrieval struct {
	DownloadURL      string
	OriginalFilename string
}

var (
	// ErrMissingData is returned when a required field is empty.
	ErrMissingData = errors.New("missing data")

	// ErrUnsupportedFileType is returned when the filename extension is not allowed.
	ErrUnsupportedFileType = errors.New("file type not allowed")

	// ErrDuplicateSerialCode is returned when the serial code is already in use.
	ErrDuplicateSerialCode = errors.New("serial code already exists")

	// ErrStoreUnavailable is returned when the metadata store cannot be queried.
	ErrStoreUnavailable = errors.New("metadata store unavailable")

	// ErrUploadFailed is returned when the object could not be stored or addressed.
	ErrUploadFailed = errors.New("upload to object store failed")

	// ErrMetadataWriteFailed is returned when the metadata row could not be inserted.
	ErrMetadataWriteFailed = errors.New("metadata write failed")

	// ErrUploadError is returned when the upload sequence aborts unexpectedly.
	ErrUploadError = errors.New("upload aborted")

	// ErrNotFound is returned when no row matches a serial code.
	ErrNotFound = errors.New("serial code not found")

	// ErrInvalidSerialCode is returned by Retrieve when no row matches a serial code.
	ErrInvalidSerialCode = errors.New("invalid serial code")

	// ErrIncorrectAnswer is returned when the security answer does not match.
	ErrIncorrectAnswer = errors.New("incorrect security answer")
)
