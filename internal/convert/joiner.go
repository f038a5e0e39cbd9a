package convert

import "github.com/inodb/tcrconvert/internal/lookup"

// Match is the result of looking up one key.
type Match struct {
	Value string
	Found bool
}

// Joiner left-joins keys against a lookup table. The result has one Match
// per key, in key order. When a key occurs on several table rows the
// first row wins.
type Joiner interface {
	Join(t *lookup.Table, from, to lookup.Convention, keys []string) ([]Match, error)
}

// MemoryJoiner joins through an in-memory hash index.
type MemoryJoiner struct{}

// Join implements Joiner.
func (MemoryJoiner) Join(t *lookup.Table, from, to lookup.Convention, keys []string) ([]Match, error) {
	index := t.Index(from, to)
	out := make([]Match, len(keys))
	for i, k := range keys {
		v, ok := index[k]
		out[i] = Match{Value: v, Found: ok}
	}
	return out, nil
}
