package models

import "time"

// ColumnKind 列の推定種別
type ColumnKind string

const (
	KindCategorical ColumnKind = "categorical"
	KindNumerical   ColumnKind = "numerical"
	KindTemporal    ColumnKind = "temporal"
)

// Column represents one column of an uploaded table.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Table is the in-memory representation of an uploaded dataset.
// Rows keep the raw cell text; every row has len(Columns) cells.
type Table struct {
	FileName   string     `json:"file_name"`
	Columns    []Column   `json:"columns"`
	Rows       [][]string `json:"-"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnValues returns the cells of column i in row order.
func (t *Table) ColumnValues(i int) []string {
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			values = append(values, row[i])
		}
	}
	return values
}

// NumericSummary 数値列の基本統計量
type NumericSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ColumnProfile 列の概要（/dataset/ で返す）
type ColumnProfile struct {
	Name    string          `json:"name"`
	Kind    ColumnKind      `json:"kind"`
	Samples []string        `json:"samples"`
	Empty   int             `json:"empty"`
	Summary *NumericSummary `json:"summary,omitempty"`
}

// DatasetProfile データセット全体の概要
type DatasetProfile struct {
	SessionID  string          `json:"session_id"`
	FileName   string          `json:"file_name"`
	RowCount   int             `json:"row_count"`
	UploadedAt time.Time       `json:"uploaded_at"`
	Columns    []ColumnProfile `json:"columns"`
}
