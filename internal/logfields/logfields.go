package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyCategory   = "category"
	KeyFile       = "file"
	KeySlug       = "slug"
	KeyOutput     = "output"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyRevision   = "revision"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Category(name string) slog.Attr   { return slog.String(KeyCategory, name) }
func File(path string) slog.Attr       { return slog.String(KeyFile, path) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Output(path string) slog.Attr     { return slog.String(KeyOutput, path) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Revision(rev string) slog.Attr    { return slog.String(KeyRevision, rev) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
