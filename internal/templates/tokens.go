// Package templates implements the text-level page machinery: {{TOKEN}}
// substitution, include directive expansion and canonical domain rewriting.
package templates

// Tokens is an insertion-ordered string map. Re-setting a key keeps its
// original position.
type Tokens struct {
	keys   []string
	values map[string]string
}

// NewTokens returns an empty token map.
func NewTokens() *Tokens {
	return &Tokens{values: map[string]string{}}
}

// Set stores value under key.
func (t *Tokens) Set(key, value string) *Tokens {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
	return t
}

// SetDefault stores value only when key is absent.
func (t *Tokens) SetDefault(key, value string) *Tokens {
	if !t.Has(key) {
		t.Set(key, value)
	}
	return t
}

// Get returns the value for key and whether it was set.
func (t *Tokens) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.values[key]
	return v, ok
}

// Has reports whether key is set.
func (t *Tokens) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (t *Tokens) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of keys.
func (t *Tokens) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Clone returns an independent copy.
func (t *Tokens) Clone() *Tokens {
	c := NewTokens()
	if t == nil {
		return c
	}
	for _, k := range t.keys {
		c.Set(k, t.values[k])
	}
	return c
}
