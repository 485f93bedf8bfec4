// Package frontmatter splits content files into `key: value` metadata and a Markdown body.
package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Metadata holds frontmatter keys and their trimmed string values.
// When a key repeats, the last occurrence wins.
type Metadata map[string]string

// Get returns the value for key, or "" when it is absent.
func (m Metadata) Get(key string) string {
	return m[key]
}

// ValueOr returns the value for key, or fallback when it is absent or empty.
func (m Metadata) ValueOr(key, fallback string) string {
	if v := m[key]; v != "" {
		return v
	}
	return fallback
}

const delimiter = "---\n"

// blockPattern matches a leading `---` block followed by the rest of the document.
// The block body is matched lazily so the first closing delimiter ends it.
var blockPattern = regexp.MustCompile(`(?s)\A---\n(.*?)\n---\n(.*)\z`)

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// ErrMalformedLine indicates a non-blank frontmatter line that is not a `key: value` pair.
var ErrMalformedLine = errors.New("malformed frontmatter line")

// Split separates the raw frontmatter lines from the body.
//
// If the document does not start with a complete `---` block, had is false and
// body is the full input.
func Split(text string) (raw string, body string, had bool) {
	match := blockPattern.FindStringSubmatch(text)
	if match == nil {
		return "", text, false
	}
	return match[1], match[2], true
}

// Parse extracts metadata and body from text. It never fails: anything that
// does not look like a frontmatter block is returned unchanged as the body.
func Parse(text string) (Metadata, string) {
	raw, body, had := Split(text)
	if !had {
		return Metadata{}, text
	}
	return parseLines(raw), body
}

// ParseStrict behaves like Parse but reports unclosed blocks and lines that
// are not `key: value` pairs instead of ignoring them.
func ParseStrict(text string) (Metadata, string, error) {
	raw, body, had := Split(text)
	if !had {
		if strings.HasPrefix(text, delimiter) {
			return Metadata{}, text, ErrMissingClosingDelimiter
		}
		return Metadata{}, text, nil
	}
	for i, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, _, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return Metadata{}, text, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, i+2, line)
		}
	}
	return parseLines(raw), body, nil
}

func parseLines(raw string) Metadata {
	meta := Metadata{}
	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return meta
}
