// Package ids normalizes Notion identifiers.
//
// Notion shows identifiers dashed (8-4-4-4-12) in API responses and
// undashed inside URLs. The undashed lowercase form is canonical and is
// used for cache keys and memo keys.
package ids

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var idPattern = regexp.MustCompile(`(?i)\b[a-f0-9]{8}-?[a-f0-9]{4}-?[a-f0-9]{4}-?[a-f0-9]{4}-?[a-f0-9]{12}\b`)

// Extract returns the first identifier found anywhere in input, undashed.
// It works on raw IDs, dashed UUIDs and full page or database URLs.
// The second return value is false when input contains no identifier.
func Extract(input string) (string, bool) {
	match := idPattern.FindString(input)
	if match == "" {
		return "", false
	}
	return Undash(match), true
}

// Undash strips dashes and lowercases id.
func Undash(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}

// Dashed formats an identifier as 8-4-4-4-12. Input that is not a valid
// identifier is returned unchanged.
func Dashed(id string) string {
	parsed, err := uuid.Parse(Undash(id))
	if err != nil {
		return id
	}
	return parsed.String()
}

// New returns a random canonical identifier.
func New() string {
	return Undash(uuid.NewString())
}
