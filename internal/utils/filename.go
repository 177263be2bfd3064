package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameBytes = 200

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)
	whitespaceRuns       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a base name safe to create in the import folder:
// path separators and reserved characters are removed, whitespace runs
// become a single space and the result is capped at 200 bytes without
// splitting a UTF-8 sequence. Leading dots are dropped so copies never
// collide with the hidden temp files the cache writes.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceRuns.ReplaceAllString(filename, " ")
	filename = strings.TrimLeft(strings.TrimSpace(filename), ".")

	if len(filename) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(filename[cut]) {
			cut--
		}
		filename = strings.TrimSpace(filename[:cut])
	}

	if filename == "" {
		return "untitled"
	}
	return filename
}
