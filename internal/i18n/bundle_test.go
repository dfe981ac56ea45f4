package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		text  string
		key   string
		found bool
	}{
		{"{i18n>ORDER_NO}", "ORDER_NO", true},
		{"{@i18n>ORDER_NO}", "ORDER_NO", true},
		{"Order Number", "", false},
		{"{i18n>}", "", false},
		{"{other>KEY}", "", false},
		{"{", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			key, found := ParseBinding(tt.text)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestLocalize(t *testing.T) {
	bundle := NewBundle(map[string]string{"ORDER_NO": "Order Number"}, FallbackEmpty)

	assert.Equal(t, "Order Number", bundle.Localize("{i18n>ORDER_NO}", nil))
	assert.Equal(t, "Order Number", bundle.Localize("{@i18n>ORDER_NO}", nil))
	assert.Equal(t, "Plain", bundle.Localize("Plain", nil))
	assert.Equal(t, "", bundle.Localize("{i18n>MISSING}", nil))
	assert.Equal(t, "Customer/Name", bundle.Localize("{i18n>MISSING}", "Customer/Name"))
}

func TestLocalize_FallbackKey(t *testing.T) {
	bundle := NewBundle(nil, FallbackKey)
	assert.Equal(t, "MISSING", bundle.Localize("{i18n>MISSING}", nil))
}

func TestLocalize_NilBundle(t *testing.T) {
	var bundle *Bundle
	assert.Equal(t, "Plain", bundle.Localize("Plain", nil))
	assert.Equal(t, "", bundle.Localize("{i18n>KEY}", nil))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ORDER_NO: Order Number\nCUSTOMER: Business Partner\n"), 0o644))

	bundle, err := LoadFile(path, FallbackEmpty)
	require.NoError(t, err)
	assert.Equal(t, 2, bundle.Len())

	bundle.Merge(map[string]string{"CUSTOMER": "Customer"})
	assert.Equal(t, "Customer", bundle.Localize("{i18n>CUSTOMER}", nil))
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load([]byte("- not\n- a map\n"), FallbackEmpty)
	assert.Error(t, err)
}

func TestParseFallback(t *testing.T) {
	f, err := ParseFallback("key")
	require.NoError(t, err)
	assert.Equal(t, FallbackKey, f)

	_, err = ParseFallback("nope")
	assert.Error(t, err)
}
