package snapshot

import (
	"net/url"
	"strings"
)

const (
	keyNamespace = "tables:"
	keySuffix    = ":properties"

	// tableKeyPattern matches every key produced by TableKey (Redis glob syntax)
	tableKeyPattern = keyNamespace + "*" + keySuffix
)

// TableKey returns the key of a table's property info snapshot
func TableKey(tableID string) string {
	return keyNamespace + escape(tableID) + keySuffix
}

// TableIDFromKey extracts the table identity from a key produced by TableKey.
func TableIDFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, keyNamespace)
	if !ok {
		return "", false
	}
	escaped, ok := strings.CutSuffix(rest, keySuffix)
	if !ok || escaped == "" {
		return "", false
	}
	id, err := url.PathUnescape(escaped)
	if err != nil {
		return "", false
	}
	return id, true
}

// escape keeps ':' out of table identities so keys split unambiguously.
func escape(id string) string {
	return strings.ReplaceAll(url.PathEscape(id), ":", "%3A")
}
