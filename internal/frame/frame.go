//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

var ErrNoColumn = errors.New("no such column")

// Record - one post from one topic archive
type Record struct {
	ID      int64  `parquet:"id" json:"id"`
	Title   string `parquet:"title" json:"title"`
	Content string `parquet:"content" json:"content"`
	Tags    string `parquet:"tags" json:"tags"`
	Topic   string `parquet:"topic" json:"topic"`
}

var Columns = []string{"id", "title", "content", "tags", "topic"}

// Field - the named column of a record as text
func (r Record) Field(name string) (string, error) {
	switch name {
	case "id":
		return strconv.FormatInt(r.ID, 10), nil
	case "title":
		return r.Title, nil
	case "content":
		return r.Content, nil
	case "tags":
		return r.Tags, nil
	case "topic":
		return r.Topic, nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrNoColumn)
	}
}

// Frame - ordered rows plus the row index each one carries
type Frame struct {
	Index []int
	Rows  []Record
}

// New - a frame with a fresh 0..n-1 index
func New(rows []Record) *Frame {
	f := &Frame{Index: make([]int, len(rows)), Rows: rows}
	for i := range f.Index {
		f.Index[i] = i
	}
	return f
}

func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Concat - stack frames in order; incoming indices are ignored
func Concat(ff ...*Frame) *Frame {
	n := 0
	for _, f := range ff {
		n += f.Len()
	}
	rows := make([]Record, 0, n)
	for _, f := range ff {
		if f != nil {
			rows = append(rows, f.Rows...)
		}
	}
	return New(rows)
}

// Shuffle - a seeded permutation of every row; each row keeps its index
func (f *Frame) Shuffle(seed int64) *Frame {
	r := rand.New(rand.NewSource(seed))
	perm := r.Perm(f.Len())
	out := &Frame{Index: make([]int, len(perm)), Rows: make([]Record, len(perm))}
	for i, p := range perm {
		out.Index[i] = f.Index[p]
		out.Rows[i] = f.Rows[p]
	}
	return out
}

// Head - the first n rows (all of them if n <= 0 or n > Len)
func (f *Frame) Head(n int) *Frame {
	if n <= 0 || n >= f.Len() {
		n = f.Len()
	}
	return &Frame{Index: append([]int(nil), f.Index[:n]...), Rows: append([]Record(nil), f.Rows[:n]...)}
}

// Column - every value of one column, in row order
func (f *Frame) Column(name string) ([]string, error) {
	if _, err := (Record{}).Field(name); err != nil {
		return nil, err
	}
	out := make([]string, f.Len())
	for i, r := range f.Rows {
		out[i], _ = r.Field(name)
	}
	return out, nil
}

// Topics - how many rows each topic contributed
func (f *Frame) Topics() map[string]int {
	ct := make(map[string]int)
	for _, r := range f.Rows {
		ct[r.Topic]++
	}
	return ct
}

// ReadCSV - read a "id,title,content,tags" file and stamp every row with topic
func ReadCSV(path string, topic string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := DecodeCSV(fh, topic)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// DecodeCSV - header-driven; unknown columns are ignored and missing ones stay blank
func DecodeCSV(r io.Reader, topic string) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return New(nil), nil
	}
	if err != nil {
		return nil, err
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	get := func(line []string, col string) string {
		i, ok := pos[col]
		if !ok || i >= len(line) {
			return ""
		}
		return line[i]
	}

	var rows []Record
	for {
		line, e := cr.Read()
		if e == io.EOF {
			break
		}
		if e != nil {
			return nil, e
		}
		id, e := strconv.ParseInt(strings.TrimSpace(get(line, "id")), 10, 64)
		if e != nil {
			id = int64(len(rows))
		}
		rows = append(rows, Record{
			ID:      id,
			Title:   get(line, "title"),
			Content: get(line, "content"),
			Tags:    get(line, "tags"),
			Topic:   topic,
		})
	}
	return New(rows), nil
}
