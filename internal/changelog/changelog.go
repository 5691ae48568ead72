package changelog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/txnkit/internal/categorize"
)

// Entry is one back-filled row in the change log.
type Entry struct {
	Timestamp   time.Time
	RunID       string
	File        string
	Row         int
	Description string
	Category    string
	Match       string
}

// Header is the CSV header of the change log.
const Header = "timestamp,run_id,file,row,description,category,match"

// DefaultPath is the change log location relative to a workspace root.
const DefaultPath = "logs/categorize-log.csv"

const (
	numFields   = 7
	colTime     = 0
	colRunID    = 1
	colFile     = 2
	colRow      = 3
	colDesc     = 4
	colCategory = 5
	colMatch    = 6
)

// FromResult turns a back-fill result into log entries. file is recorded as
// given, so callers pass a workspace-relative path.
func FromResult(ts time.Time, runID, file string, res categorize.Result) []Entry {
	entries := make([]Entry, 0, len(res.Changes))
	for _, c := range res.Changes {
		entries = append(entries, Entry{
			Timestamp:   ts,
			RunID:       runID,
			File:        filepath.ToSlash(file),
			Row:         c.Row,
			Description: c.Description,
			Category:    c.Category,
			Match:       string(c.Match),
		})
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFile] = e.File
	row[colRow] = strconv.Itoa(e.Row)
	row[colDesc] = e.Description
	row[colCategory] = e.Category
	row[colMatch] = e.Match
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	row, err := strconv.Atoi(record[colRow])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing row %q: %w", record[colRow], err)
	}

	return Entry{
		Timestamp:   ts,
		RunID:       record[colRunID],
		File:        record[colFile],
		Row:         row,
		Description: record[colDesc],
		Category:    record[colCategory],
		Match:       record[colMatch],
	}, nil
}

// Append adds entries to the log at path, creating the file, its directory
// and the header when needed.
func Append(path string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening change log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing change log: %w", err)
	}
	return f.Close()
}

// Read returns all entries in the log at path, or nil if it does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening change log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading change log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
