package utils

import (
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFilenameBytes = 255

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"|?*]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename cleans a client-supplied upload name for storage and
// logging. Directory components and control characters are dropped, the
// extension is preserved, and an empty result becomes "untitled".
func SanitizeFilename(filename string) string {
	// Browsers on Windows may send full paths with backslashes
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = path.Base(filename)
	if filename == "." || filename == "/" {
		filename = ""
	}

	filename = strings.ToValidUTF8(filename, "")
	filename = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, filename)

	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	if len(filename) > maxFilenameBytes {
		filename = truncateKeepingExt(filename, maxFilenameBytes)
	}

	if filename == "" {
		filename = "untitled"
	}

	return filename
}

// truncateKeepingExt shortens name to at most limit bytes without splitting
// a rune, keeping the extension when it is short enough to matter.
func truncateKeepingExt(name string, limit int) string {
	ext := path.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	stem := name[:len(name)-len(ext)]
	budget := limit - len(ext)
	for len(stem) > budget {
		_, size := utf8.DecodeLastRuneInString(stem)
		stem = stem[:len(stem)-size]
	}
	return strings.TrimSpace(stem) + ext
}
