package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kilianp07/bikecast/core/model"
)

// Supported dataset encodings.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
	FormatXLSX  = "xlsx"
)

// FormatFromPath infers the encoding from a file extension, defaulting to csv.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// Write encodes rows in the given format.
func Write(w io.Writer, format string, rows []model.Observation) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSONL:
		return WriteJSONL(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}

// Read decodes rows in the given format.
func Read(r io.Reader, format string) ([]model.Observation, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSONL:
		return ReadJSONL(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}
