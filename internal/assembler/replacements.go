package assembler

import (
	"regexp"
	"strings"
)

// placeholder matches a bracketed token such as "[total loan]".
var placeholder = regexp.MustCompile(`\[[^\[\]]+\]`)

// ReplacementTable maps placeholder tokens to their values. Keys are applied
// in insertion order.
type ReplacementTable struct {
	keys   []string
	values map[string]string
}

// NewReplacementTable returns an empty table.
func NewReplacementTable() *ReplacementTable {
	return &ReplacementTable{values: make(map[string]string)}
}

// Set adds or updates a token. Updating keeps the original position.
func (t *ReplacementTable) Set(token, value string) {
	if _, ok := t.values[token]; !ok {
		t.keys = append(t.keys, token)
	}
	t.values[token] = value
}

// Get returns the value of token.
func (t *ReplacementTable) Get(token string) (string, bool) {
	v, ok := t.values[token]
	return v, ok
}

// Keys returns the tokens in order.
func (t *ReplacementTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of tokens.
func (t *ReplacementTable) Len() int {
	return len(t.keys)
}

// Apply replaces every occurrence of every token in s. The second result is
// false when nothing matched.
func (t *ReplacementTable) Apply(s string) (string, bool) {
	changed := false
	for _, k := range t.keys {
		if strings.Contains(s, k) {
			s = strings.ReplaceAll(s, k, t.values[k])
			changed = true
		}
	}
	return s, changed
}

// findPlaceholders returns the bracketed tokens in s.
func findPlaceholders(s string) []string {
	return placeholder.FindAllString(s, -1)
}
