package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"csv-chat-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = ".csv"
	FormatXLSX = ".xlsx"
)

var (
	// ErrUnsupportedFormat is returned for file names without a recognized tabular extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyTable is returned when the decoded content has no data rows or no columns.
	ErrEmptyTable = errors.New("the uploaded file contains no data")
)

// DecodeError wraps a failure of the underlying CSV/XLSX decoder.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s file: %v", strings.TrimPrefix(e.Format, "."), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TableLoader アップロードされたファイルをTableに変換する
type TableLoader struct {
	now func() time.Time
}

// NewTableLoader 新しいTableLoaderを作成
func NewTableLoader() *TableLoader {
	return &TableLoader{now: time.Now}
}

// FormatOf returns the normalized extension of fileName if it is a recognized tabular format.
func FormatOf(fileName string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case FormatCSV, FormatXLSX:
		return ext, true
	}
	return "", false
}

// Load decodes data according to the extension of fileName.
func (l *TableLoader) Load(fileName string, data []byte) (*models.Table, error) {
	format, ok := FormatOf(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileName)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyTable
	}

	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(data)
	case FormatXLSX:
		records, err = readXLSX(data)
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	return l.buildTable(fileName, records)
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	// 列数の不一致は許容し、短い行は空セルで埋める
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return padRows(records), nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}

	// GetRowsは末尾の空セルを切り詰めるため、空行を除いて最大列数に揃える
	kept := rows[:0]
	for _, row := range rows {
		if !isBlankRow(row) {
			kept = append(kept, row)
		}
	}
	return padRows(kept), nil
}

// padRows pads every row with empty cells up to the widest row.
func padRows(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}

func (l *TableLoader) buildTable(fileName string, records [][]string) (*models.Table, error) {
	if len(records) < 2 || len(records[0]) == 0 {
		return nil, ErrEmptyTable
	}

	header := records[0]
	names := make([]string, len(header))
	synthetic := false
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
		if names[i] == "" {
			synthetic = true
		}
	}
	if synthetic {
		for i := range names {
			names[i] = "Column_" + strconv.Itoa(i+1)
		}
	}

	table := &models.Table{
		FileName:   filepath.Base(fileName),
		Columns:    make([]models.Column, len(names)),
		Rows:       records[1:],
		UploadedAt: l.now(),
	}
	for i, name := range names {
		table.Columns[i] = models.Column{
			Name: name,
			Kind: InferColumnKind(table.ColumnValues(i)),
		}
	}
	return table, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"2006-01",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// InferColumnKind classifies a column from its non-empty values.
// Numbers win over dates so that a bare year column stays numerical.
func InferColumnKind(values []string) models.ColumnKind {
	seen, numeric, temporal := 0, 0, 0
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		seen++
		if isNumber(v) {
			numeric++
		} else if isDate(v) {
			temporal++
		}
	}

	switch {
	case seen == 0:
		return models.KindCategorical
	case numeric == seen:
		return models.KindNumerical
	case temporal == seen:
		return models.KindTemporal
	}
	return models.KindCategorical
}

func isNumber(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
