package loader

// reader.go reads scripts and CSV files from disk.
//
// Both are size-capped and decoded as UTF-8: a leading byte order mark is
// dropped and invalid byte sequences become U+FFFD.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Record is one parsed CSV line. Line is the 1-based line where it starts.
type Record struct {
	Line   int
	Fields []string
}

// ReadFile reads path, refusing files larger than maxSize bytes.
// A non-positive maxSize disables the cap. Errors are FileReadErrors.
func ReadFile(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	if maxSize > 0 && int64(len(raw)) > maxSize {
		return nil, &FileReadError{Path: path, Err: fmt.Errorf("file too large: exceeds %d bytes", maxSize)}
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: errors.Wrap(err, "decode")}
	}
	return decoded, nil
}

// ParseCSV parses data as comma-separated records with double-quote escaping.
// Every line is data; there is no header row. Blank and whitespace-only lines
// are skipped. Records may have differing field counts.
func ParseCSV(data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records []Record
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "invalid csv")
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		line, _ := r.FieldPos(0)
		records = append(records, Record{Line: line, Fields: fields})
	}
	return records, nil
}
