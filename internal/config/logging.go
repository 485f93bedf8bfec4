package config

import (
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// SlogLevel converts the level for use with slog handlers.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}

// SortOrder selects how content files are ordered within a category.
type SortOrder string

const (
	// SortByFilename sorts file names lexicographically, descending.
	SortByFilename SortOrder = "filename"
	// SortByDate sorts by the frontmatter date, newest first.
	SortByDate SortOrder = "date"
)

var sortOrderNormalizer = normalization.NewNormalizer(map[string]SortOrder{
	"filename": SortByFilename,
	"name":     SortByFilename,
	"date":     SortByDate,
}, SortByFilename)

// NormalizeSortOrder rejects unknown orders; empty selects SortByFilename.
func NormalizeSortOrder(raw string) (SortOrder, error) {
	return sortOrderNormalizer.NormalizeWithError(raw)
}
