package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	inputs := []string{
		"# Title\n\nHello\n",
		"",
		"---\nkey: value\n# never closed\n",
		"--- \nkey: value\n---\nbody",
		"---\r\nkey: value\r\n---\r\nbody\r\n",
		"intro\n---\nkey: value\n---\nbody",
	}
	for _, input := range inputs {
		meta, body := Parse(input)
		require.Empty(t, meta)
		require.NotNil(t, meta)
		require.Equal(t, input, body)

		again, bodyAgain := Parse(body)
		require.Empty(t, again)
		require.Equal(t, body, bodyAgain)
	}
}

func TestParse_SplitsMetadataAndBody(t *testing.T) {
	input := "---\ntitle: Hello World\ndate: 2024-03-05\ncategory: Tech Notes\n---\n# Hi\n"

	meta, body := Parse(input)
	require.Equal(t, Metadata{
		"title":    "Hello World",
		"date":     "2024-03-05",
		"category": "Tech Notes",
	}, meta)
	require.Equal(t, "# Hi\n", body)
}

func TestParse_SplitsOnFirstColonAndTrims(t *testing.T) {
	input := "---\n  title :  Time: 10:30  \nurl: https://example.com/a\n---\nbody"

	meta, body := Parse(input)
	require.Equal(t, "Time: 10:30", meta.Get("title"))
	require.Equal(t, "https://example.com/a", meta.Get("url"))
	require.Equal(t, "body", body)
}

func TestParse_IgnoresLinesWithoutColon(t *testing.T) {
	input := "---\njust some words\ntitle: Kept\n\n---\nbody"

	meta, _ := Parse(input)
	require.Equal(t, Metadata{"title": "Kept"}, meta)
}

func TestParse_LastDuplicateKeyWins(t *testing.T) {
	meta, _ := Parse("---\ntitle: first\ntitle: second\n---\n")
	require.Equal(t, "second", meta.Get("title"))
}

func TestParse_FirstClosingDelimiterEndsBlock(t *testing.T) {
	input := "---\ntitle: A\n---\nbody\n---\nnot: meta\n---\nmore"

	meta, body := Parse(input)
	require.Equal(t, Metadata{"title": "A"}, meta)
	require.Equal(t, "body\n---\nnot: meta\n---\nmore", body)
}

func TestParse_EmptyBody(t *testing.T) {
	meta, body := Parse("---\ntitle: Only meta\n---\n")
	require.Equal(t, "Only meta", meta.Get("title"))
	require.Empty(t, body)
}

func TestSplit_ReturnsRawLines(t *testing.T) {
	raw, body, had := Split("---\na: 1\nb: 2\n---\nbody")
	require.True(t, had)
	require.Equal(t, "a: 1\nb: 2", raw)
	require.Equal(t, "body", body)

	_, body, had = Split("no block")
	require.False(t, had)
	require.Equal(t, "no block", body)
}

func TestMetadata_ValueOr(t *testing.T) {
	meta := Metadata{"title": "", "category": "Go"}
	require.Equal(t, "Untitled", meta.ValueOr("title", "Untitled"))
	require.Equal(t, "Go", meta.ValueOr("category", "General"))
	require.Equal(t, "x", meta.ValueOr("missing", "x"))
}

func TestParseStrict(t *testing.T) {
	t.Run("valid block", func(t *testing.T) {
		meta, body, err := ParseStrict("---\ntitle: A\n\n---\nbody")
		require.NoError(t, err)
		require.Equal(t, "A", meta.Get("title"))
		require.Equal(t, "body", body)
	})

	t.Run("no block", func(t *testing.T) {
		meta, body, err := ParseStrict("plain")
		require.NoError(t, err)
		require.Empty(t, meta)
		require.Equal(t, "plain", body)
	})

	t.Run("missing closing delimiter", func(t *testing.T) {
		_, body, err := ParseStrict("---\ntitle: A\nbody")
		require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
		require.Equal(t, "---\ntitle: A\nbody", body)
	})

	t.Run("line without colon", func(t *testing.T) {
		_, _, err := ParseStrict("---\ntitle: A\noops\n---\nbody")
		require.ErrorIs(t, err, ErrMalformedLine)
		require.Contains(t, err.Error(), "line 3")
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := ParseStrict("---\n: value\n---\nbody")
		require.ErrorIs(t, err, ErrMalformedLine)
	})
}
