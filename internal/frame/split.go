//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package frame

import (
	"encoding/json"
	"fmt"
)

// Split - the "split" orientation: {"columns": [...], "index": [...], "data": [[...], ...]}
type Split struct {
	Columns []string `json:"columns"`
	Index   []int    `json:"index"`
	Data    [][]any  `json:"data"`
}

// Col - position of a column or -1
func (s Split) Col(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (s Split) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func UnmarshalSplit(b []byte) (Split, error) {
	var s Split
	if err := json.Unmarshal(b, &s); err != nil {
		return s, err
	}
	if len(s.Index) != len(s.Data) {
		return s, fmt.Errorf("split: %d index values for %d rows", len(s.Index), len(s.Data))
	}
	for i, row := range s.Data {
		if len(row) != len(s.Columns) {
			return s, fmt.Errorf("split: row %d has %d values for %d columns", i, len(row), len(s.Columns))
		}
	}
	return s, nil
}

// AsString - a cell as text; JSON numbers arrive as float64
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

// AsInt - a cell as an int
func AsInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case json.Number:
		n, err := t.Int64()
		return int(n), err
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

// ToSplit - frame to split orientation
func (f *Frame) ToSplit() Split {
	s := Split{Columns: Columns, Index: append([]int(nil), f.Index...), Data: make([][]any, f.Len())}
	for i, r := range f.Rows {
		s.Data[i] = []any{r.ID, r.Title, r.Content, r.Tags, r.Topic}
	}
	return s
}

// FromSplit - split orientation back to a frame; absent columns stay blank
func FromSplit(s Split) (*Frame, error) {
	f := &Frame{Index: append([]int(nil), s.Index...), Rows: make([]Record, len(s.Data))}
	ci, ct, cc, cg, cp := s.Col("id"), s.Col("title"), s.Col("content"), s.Col("tags"), s.Col("topic")
	cell := func(row []any, c int) any {
		if c < 0 {
			return nil
		}
		return row[c]
	}
	for i, row := range s.Data {
		var id int
		if ci >= 0 {
			n, err := AsInt(row[ci])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			id = n
		}
		f.Rows[i] = Record{
			ID:      int64(id),
			Title:   AsString(cell(row, ct)),
			Content: AsString(cell(row, cc)),
			Tags:    AsString(cell(row, cg)),
			Topic:   AsString(cell(row, cp)),
		}
	}
	return f, nil
}
