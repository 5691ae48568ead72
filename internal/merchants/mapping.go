package merchants

import (
	"iter"
	"strings"
)

// Mapping is a merchant-name to category lookup that remembers insertion
// order. Re-inserting a key replaces its category but keeps its position.
type Mapping struct {
	keys       []string
	categories []string
	index      map[string]int
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set maps key to category.
func (m *Mapping) Set(key, category string) {
	if i, ok := m.index[key]; ok {
		m.categories[i] = category
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.categories = append(m.categories, category)
}

// Add stores merchant under both its own spelling and its lowercase form.
func (m *Mapping) Add(merchant, category string) {
	m.Set(merchant, category)
	m.Set(strings.ToLower(merchant), category)
}

// Get returns the category for an exact key.
func (m *Mapping) Get(key string) (string, bool) {
	i, ok := m.index[key]
	if !ok {
		return "", false
	}
	return m.categories[i], true
}

// Len returns the number of keys, counting both spellings of a merchant.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Merchants estimates the number of source rows as Len()/2, since each row
// is stored twice.
func (m *Mapping) Merchants() int {
	return m.Len() / 2
}

// All yields key/category pairs in insertion order.
func (m *Mapping) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i, k := range m.keys {
			if !yield(k, m.categories[i]) {
				return
			}
		}
	}
}
