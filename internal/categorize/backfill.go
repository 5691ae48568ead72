package categorize

import (
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/cleared-dev/txnkit/internal/atomicfile"
)

// Uncategorized marks a row whose category has not been resolved yet.
const Uncategorized = "Uncategorized"

const (
	fieldDescription = "description"
	fieldCategory    = "category"
)

// MatchKind says which rule resolved a description.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchLowercase MatchKind = "lowercase"
	MatchPrefix    MatchKind = "prefix"
)

// Lookup is the read side of a merchant mapping.
type Lookup interface {
	Get(key string) (string, bool)
	All() iter.Seq2[string, string]
}

// Change records one back-filled row.
type Change struct {
	Row         int // 1-based data row, header excluded
	Description string
	Category    string
	Match       MatchKind
	Key         string
}

// Result is the outcome of back-filling one file.
type Result struct {
	Path    string
	Changes []Change
}

// Updated returns the number of rows whose category was set.
func (r Result) Updated() int {
	return len(r.Changes)
}

// Resolve finds a category for a trimmed description. Rules are tried in
// order: exact key, lowercased key, then the first key (in mapping order)
// that the description starts with, ignoring case.
func Resolve(m Lookup, description string) (category string, kind MatchKind, key string, ok bool) {
	if c, found := m.Get(description); found {
		return c, MatchExact, description, true
	}

	lower := strings.ToLower(description)
	if c, found := m.Get(lower); found {
		return c, MatchLowercase, lower, true
	}

	for k, c := range m.All() {
		if strings.HasPrefix(lower, strings.ToLower(k)) {
			return c, MatchPrefix, k, true
		}
	}
	return "", "", "", false
}

// Backfill sets the category of every Uncategorized row with a resolvable
// description. Rows that already carry a category are never touched.
func Backfill(t *Table, m Lookup) []Change {
	colDesc := t.Column(fieldDescription)
	colCat := t.Column(fieldCategory)
	if colCat < 0 {
		return nil
	}

	var changes []Change
	for i := range t.Rows {
		if strings.TrimSpace(t.Cell(i, colCat)) != Uncategorized {
			continue
		}
		desc := strings.TrimSpace(t.Cell(i, colDesc))
		if desc == "" {
			continue
		}

		category, kind, key, ok := Resolve(m, desc)
		if !ok {
			continue
		}
		t.SetCell(i, colCat, category)
		changes = append(changes, Change{
			Row:         i + 1,
			Description: desc,
			Category:    category,
			Match:       kind,
			Key:         key,
		})
	}
	return changes
}

// File back-fills the CSV at path. The file is rewritten atomically, and only
// when at least one row changed.
func File(path string, m Lookup) (Result, error) {
	res := Result{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("opening %s: %w", path, err)
	}
	t, err := ReadTable(f)
	f.Close()
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}

	res.Changes = Backfill(t, m)
	if len(res.Changes) == 0 {
		return res, nil
	}

	if err := atomicfile.Write(path, t.WriteQuoted); err != nil {
		return Result{Path: path}, fmt.Errorf("rewriting %s: %w", path, err)
	}
	return res, nil
}
