// Package keys builds the storage keys of namespaced caches.
package keys

import "strings"

// Prefixed joins a namespace prefix and a caller key.
func Prefixed(prefix, key string) string {
	return prefix + key
}

// MatchPrefix returns a SCAN MATCH pattern selecting exactly the keys starting with prefix.
func MatchPrefix(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 2)
	for _, r := range prefix {
		switch r {
		case '*', '?', '[', ']', '\\', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('*')
	return b.String()
}
