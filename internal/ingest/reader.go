package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Hard cap for legacy .xls sheets; extrame/xls needs an explicit limit.
const maxXLSRows = 100000

// LoadError means the underlying file could not be read or parsed at all
// (missing file, corrupt workbook). Column-level problems never produce a
// LoadError; they resolve to defaults during normalization.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// ReadFile reads sheet 0 of a spreadsheet (.xlsx/.xlsm/.xls) or a CSV file
// into a RawTable. A sheet with no rows at all yields an empty table, not
// an error; only an unreadable file is a *LoadError.
func ReadFile(path string) (RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawTable{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	return ReadReader(f, path)
}

// ReadReader is ReadFile for already-open data (e.g. multipart uploads).
// The filename only carries the extension used for format dispatch.
func ReadReader(r io.Reader, filename string) (RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RawTable{}, &LoadError{Path: filename, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return readCSV(data, filename)
	case ".xls":
		return readXLS(data, filename)
	default:
		return readXLSX(data, filename)
	}
}

func readCSV(data []byte, filename string) (RawTable, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return RawTable{}, &LoadError{Path: filename, Err: err}
	}
	return tableFromRows(rows), nil
}

func readXLS(data []byte, filename string) (RawTable, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return RawTable{}, &LoadError{Path: filename, Err: err}
	}
	if wb.NumSheets() == 0 {
		return RawTable{}, nil
	}
	return tableFromRows(wb.ReadAllCells(maxXLSRows)), nil
}

func readXLSX(data []byte, filename string) (RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return RawTable{}, &LoadError{Path: filename, Err: err}
	}
	defer func() { _ = f.Close() }()

	// Sheet 0 by convention; the original workbook keeps everything on
	// the first sheet.
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return RawTable{}, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return RawTable{}, &LoadError{Path: filename, Err: err}
	}
	return tableFromRows(rows), nil
}

func tableFromRows(rows [][]string) RawTable {
	if len(rows) == 0 {
		return RawTable{}
	}
	return RawTable{Headers: rows[0], Rows: rows[1:]}
}
