package files

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a flat ASCII filename safe to use as the
// last segment of an object key. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return ' '
		case r >= utf8.RuneSelf:
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
