package files

import "strings"

var allowedExtensions = map[string]struct{}{
	"pdf":  {},
	"txt":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"docx": {},
	"doc":  {},
	"xlsx": {},
	"xls":  {},
}

// AllowedFile reports whether filename has an extension from the allow-list.
// The extension is the lowercased text after the last dot.
func AllowedFile(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[i+1:])]
	return ok
}

// Validate checks an upload before anything touches the stores.
func Validate(in UploadInput) error {
	if in.SerialCode == "" || in.SecurityQuestion == "" || in.SecurityAnswer == "" || in.Filename == "" {
		return ErrMissingData
	}
	if !AllowedFile(in.Filename) {
		return ErrUnsupportedFileType
	}
	return nil
}
