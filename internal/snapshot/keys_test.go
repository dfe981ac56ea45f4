package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableKey(t *testing.T) {
	tests := []struct {
		id  string
		key string
	}{
		{"orders", "tables:orders:properties"},
		{"sales/orders", "tables:sales%2Forders:properties"},
		{"a:b", "tables:a%3Ab:properties"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.key, TableKey(tt.id))

			id, ok := TableIDFromKey(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestTableIDFromKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "orders", "tables::properties", "tables:orders", "http:GET:/"} {
		_, ok := TableIDFromKey(key)
		assert.False(t, ok, key)
	}
}
