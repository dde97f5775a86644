package core

// reader.go decodes an uploaded export into raw rows.
//
// Spreadsheet workbooks (.xlsx) are read from their first worksheet. Anything
// else is treated as CSV: a UTF-8 BOM is skipped, invalid UTF-8 is replaced,
// ragged rows are accepted and quotes are parsed lazily. Fully blank rows are
// dropped in both cases.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxFileSize is the maximum accepted export size (100MB).
var MaxFileSize int64 = 100 * 1024 * 1024

// ErrFileTooLarge is returned when the input exceeds MaxFileSize.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ErrNoWorksheet is returned for a workbook without sheets.
var ErrNoWorksheet = errors.New("workbook has no worksheets")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRows reads the whole export. fileName only selects the decoder.
func ReadRows(fileName string, r io.Reader) ([][]string, error) {
	return readRows(fileName, r, MaxFileSize)
}

func readRows(fileName string, r io.Reader, maxSize int64) ([][]string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, maxSize)
	}

	var rows [][]string
	if isWorkbook(fileName) {
		rows, err = parseXLSX(data)
	} else {
		rows, err = parseCSV(data)
	}
	if err != nil {
		return nil, err
	}

	out := rows[:0]
	for _, row := range rows {
		if !isEmptyRow(row) {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyFile
	}
	return out, nil
}

func isWorkbook(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return ext == ".xlsx" || ext == ".xlsm"
}

func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	return rows, nil
}

func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read workbook sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
