// Package corpus builds the transcript vector index from the
// mtsamples CSV export.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one parsed line of the transcript CSV.
type Row struct {
	Transcription string
	Specialty     string
	SampleName    string
}

// LoadCSV reads the transcript export from disk. Rows with an empty
// transcription field are dropped before any metadata is extracted.
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// ReadRows parses CSV data from r. The first line must be a header
// naming at least the transcription column; the metadata columns are
// optional and default to empty strings.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	textCol, ok := cols["transcription"]
	if !ok {
		return nil, fmt.Errorf("corpus CSV has no transcription column")
	}
	specialtyCol := colIndex(cols, "medical_specialty")
	sampleCol := colIndex(cols, "sample_name")

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		text := field(record, textCol)
		if strings.TrimSpace(text) == "" {
			continue
		}
		rows = append(rows, Row{
			Transcription: text,
			Specialty:     field(record, specialtyCol),
			SampleName:    field(record, sampleCol),
		})
	}
	return rows, nil
}

func colIndex(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
