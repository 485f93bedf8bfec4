package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sortOrder string

const (
	orderFilename sortOrder = "filename"
	orderDate     sortOrder = "date"
)

func newOrderNormalizer() *Normalizer[sortOrder] {
	return NewNormalizer(map[string]sortOrder{
		"filename": orderFilename,
		"name":     orderFilename,
		"date":     orderDate,
	}, orderFilename)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newOrderNormalizer()

	tests := []struct {
		name     string
		input    string
		expected sortOrder
	}{
		{"exact match", "date", orderDate},
		{"case insensitive", "DATE", orderDate},
		{"with spaces", "  name  ", orderFilename},
		{"unknown falls back", "random", orderFilename},
		{"empty falls back", "", orderFilename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newOrderNormalizer()

	v, err := n.NormalizeWithError(" Date ")
	require.NoError(t, err)
	require.Equal(t, orderDate, v)

	v, err = n.NormalizeWithError("")
	require.NoError(t, err)
	require.Equal(t, orderFilename, v)

	_, err = n.NormalizeWithError("chronological")
	require.Error(t, err)
	require.Contains(t, err.Error(), "[date filename name]")
}

func TestNormalizer_ValidKeysIsCopy(t *testing.T) {
	n := newOrderNormalizer()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	require.Equal(t, []string{"date", "filename", "name"}, n.ValidKeys())
}
