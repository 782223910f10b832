package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	StatusColumn  = "result_status"
	MessageColumn = "result_message"
)

// TestResultRow is one data-quality test result keyed by column name.
// Columns keeps the sheet order so the row renders the way it was read.
type TestResultRow struct {
	Columns []string
	Values  map[string]any
}

func NewTestResultRow(columns []string) TestResultRow {
	return TestResultRow{
		Columns: columns,
		Values:  make(map[string]any, len(columns)),
	}
}

// Get returns the cell value for column, or "" when the column is absent.
func (r TestResultRow) Get(column string) any {
	v, ok := r.Values[column]
	if !ok || v == nil {
		return ""
	}
	return v
}

// Text returns the cell value for column formatted as a string.
func (r TestResultRow) Text(column string) string {
	switch v := r.Get(column).(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (r TestResultRow) Status() string {
	return r.Text(StatusColumn)
}

func (r TestResultRow) Message() any {
	return r.Get(MessageColumn)
}

// MarshalJSON writes the row as a JSON object in column order.
func (r TestResultRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, col); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, r.Get(col)); err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON encodes v without HTML escaping; callers that need escaping get
// it from the outer encoder.
func writeJSON(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
