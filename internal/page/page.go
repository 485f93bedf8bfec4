// Package page resolves per-page fields from frontmatter and substitutes them
// into `{{token}}` placeholders of an HTML template string.
package page

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

const (
	DefaultTitle    = "Untitled"
	DefaultCategory = "General"
)

// Fields is the resolved set of values available to a template.
type Fields struct {
	Title        string
	Description  string
	Date         string // human-readable, e.g. "March 5, 2024"
	ISODate      string // raw frontmatter date
	Category     string
	CategorySlug string
	Slug         string
	Content      string
}

// Resolve builds template fields from metadata, applying defaults for missing or
// empty keys. slug must already be resolved; content is the rendered HTML body.
func Resolve(meta frontmatter.Metadata, slug, content string) Fields {
	rawDate := meta.Get("date")
	return Fields{
		Title:        meta.ValueOr("title", DefaultTitle),
		Description:  meta.Get("description"),
		Date:         FormatDate(rawDate),
		ISODate:      rawDate,
		Category:     meta.ValueOr("category", DefaultCategory),
		CategorySlug: Slugify(meta.ValueOr("category", "general")),
		Slug:         slug,
		Content:      content,
	}
}

// Render substitutes every known token in tmpl. Unknown tokens are kept as
// written. Substitution is a single pass, so values that happen to contain
// token text are not expanded again.
func Render(tmpl string, f Fields) string {
	r := strings.NewReplacer(
		"{{title}}", f.Title,
		"{{description}}", f.Description,
		"{{date}}", f.Date,
		"{{isoDate}}", f.ISODate,
		"{{category}}", f.Category,
		"{{categorySlug}}", f.CategorySlug,
		"{{slug}}", f.Slug,
		"{{content}}", f.Content,
	)
	return r.Replace(tmpl)
}

// dateLayouts are tried in order when parsing a frontmatter date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
}

const displayLayout = "January 2, 2006"

// ParseDate parses raw as a calendar date. The date is taken as written; no
// time zone conversion is applied.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw in long form ("March 5, 2024"). An empty date yields ""
// and an unparseable one is returned unchanged.
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.Format(displayLayout)
}

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range cases.Lower(language.Und).String(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
