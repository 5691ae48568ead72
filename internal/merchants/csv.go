package merchants

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Header is the CSV header of a merchant mapping file.
const Header = "Merchant,Category"

const (
	fieldMerchant = "Merchant"
	fieldCategory = "Category"
	utf8BOM       = "\ufeff"
)

// Load reads a merchant mapping CSV from path.
func Load(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening merchant mapping: %w", err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading merchant mapping %s: %w", path, err)
	}
	return m, nil
}

// Read parses a merchant mapping. Columns are located by header name; rows
// with a blank merchant or category are skipped.
func Read(r io.Reader) (*Mapping, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header %q", Header)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	colMerchant, colCategory := -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		switch name {
		case fieldMerchant:
			colMerchant = i
		case fieldCategory:
			colCategory = i
		}
	}
	if colMerchant < 0 || colCategory < 0 {
		return nil, fmt.Errorf("header %q must contain %s and %s", strings.Join(header, ","), fieldMerchant, fieldCategory)
	}

	m := NewMapping()
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		merchant := strings.TrimSpace(field(rec, colMerchant))
		category := strings.TrimSpace(field(rec, colCategory))
		if merchant == "" || category == "" {
			continue
		}
		m.Add(merchant, category)
	}
	return m, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
