// Package reference reads the column layout of the dataset the model was
// trained on. Only the header matters; rows are never read.
package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/features"
)

// ErrNoAgeColumns is returned when a reference dataset has no age
// one-hot columns.
var ErrNoAgeColumns = errors.New("reference dataset has no age columns")

// Columns is the ordered header of the reference dataset.
type Columns []string

// AgeColumns returns the age one-hot columns in dataset order.
func (c Columns) AgeColumns() []string {
	return features.AgeColumns(c)
}

func (c Columns) check(source string) (Columns, error) {
	if len(c.AgeColumns()) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNoAgeColumns)
	}
	return c, nil
}

// LoadFile reads the header of a .csv or .xlsx reference file.
func LoadFile(path string) (Columns, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported reference file %q", path)
	}
}

func loadCSV(path string) (Columns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference data: %w", err)
	}
	defer f.Close()

	header, err := ReadCSVHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return header.check(path)
}

// ReadCSVHeader returns the first record of r. A pandas index column
// (empty first header) is dropped.
func ReadCSVHeader(r io.Reader) (Columns, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("reference data is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
		if header[0] == "" {
			header = header[1:]
		}
	}
	return Columns(header), nil
}

func loadXLSX(path string) (Columns, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open reference workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("%s: sheet %q is empty", path, sheets[0])
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Columns(header).check(path)
}

// LoadTable reads the column order of table.
func LoadTable(ctx context.Context, db *gorm.DB, table string) (Columns, error) {
	rows, err := db.WithContext(ctx).Table(table).Limit(1).Rows()
	if err != nil {
		return nil, fmt.Errorf("query reference table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reference table %s columns: %w", table, err)
	}
	return Columns(cols).check("table " + table)
}
