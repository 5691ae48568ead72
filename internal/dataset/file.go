package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/txnkit/internal/atomicfile"
	"github.com/cleared-dev/txnkit/internal/model"
)

// Format is a dataset serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q (want .csv or .json)", filepath.Ext(path))
	}
}

// Save writes txns to path in the format implied by its extension. An empty
// CSV dataset is not written; written reports whether the file was touched.
func Save(path string, txns []model.Transaction) (written bool, err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return false, err
	}

	var fill func(io.Writer) error
	switch format {
	case FormatCSV:
		if len(txns) == 0 {
			return false, nil
		}
		fill = func(w io.Writer) error { return WriteCSV(w, txns) }
	case FormatJSON:
		fill = func(w io.Writer) error { return WriteJSON(w, txns) }
	}

	if err := atomicfile.Write(path, fill); err != nil {
		return false, fmt.Errorf("exporting %s: %w", path, err)
	}
	return true, nil
}

// Load reads a dataset from path in the format implied by its extension.
func Load(path string) ([]model.Transaction, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var txns []model.Transaction
	switch format {
	case FormatCSV:
		txns, err = ReadCSV(f)
	case FormatJSON:
		txns, err = ReadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return txns, nil
}
