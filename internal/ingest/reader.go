package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows loads the uploaded file fully into raw rows. CSV files are
// recognised by extension; everything else is treated as a workbook and
// read from its first sheet. The first line/row supplies the headers;
// fully empty data rows are discarded.
func ReadRows(data []byte, filename string) ([]RawRow, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return readCSV(data)
	}
	return readWorkbook(data)
}

func readCSV(data []byte) ([]RawRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []RawRow
	line := 1
	for {
		line++
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if row, ok := zipRow(header, rec); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func readWorkbook(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	header := all[0]
	var rows []RawRow
	for _, rec := range all[1:] {
		if row, ok := zipRow(header, rec); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// zipRow pairs header cells with data cells. Returns false for rows whose
// cells are all empty.
func zipRow(header, rec []string) (RawRow, bool) {
	row := RawRow{}
	empty := true
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || i >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[i])
		row[h] = v
		if v != "" {
			empty = false
		}
	}
	return row, !empty
}
