//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package frame

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `id,title,content,tags,extra
1,First,"<p>Hello, world</p>",a b,x
2,Second,"multi
line",c,y
oops,Third,plain,,z
`

func TestDecodeCSV(t *testing.T) {
	f, err := DecodeCSV(strings.NewReader(sample), "cooking")
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())
	assert.Equal(t, []int{0, 1, 2}, f.Index)
	assert.Equal(t, int64(1), f.Rows[0].ID)
	assert.Equal(t, "<p>Hello, world</p>", f.Rows[0].Content)
	assert.Equal(t, "multi\nline", f.Rows[1].Content)
	// unparseable id falls back to the row position
	assert.Equal(t, int64(2), f.Rows[2].ID)
	for _, r := range f.Rows {
		assert.Equal(t, "cooking", r.Topic)
	}
}

func TestDecodeCSVMissingColumns(t *testing.T) {
	f, err := DecodeCSV(strings.NewReader("content,id\nabc,9\n"), "diy")
	require.NoError(t, err)
	require.Equal(t, 1, f.Len())
	assert.Equal(t, Record{ID: 9, Content: "abc", Topic: "diy"}, f.Rows[0])

	empty, err := DecodeCSV(strings.NewReader(""), "diy")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestReadCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "travel.csv")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0644))
	f, err := ReadCSV(p, "travel")
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())

	_, err = ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), "travel")
	assert.Error(t, err)
}

func TestConcatShuffleHead(t *testing.T) {
	a := New([]Record{{ID: 1, Topic: "a"}, {ID: 2, Topic: "a"}})
	b := New([]Record{{ID: 3, Topic: "b"}})
	c := Concat(a, b)
	assert.Equal(t, []int{0, 1, 2}, c.Index)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, c.Topics())

	s1 := c.Shuffle(42)
	s2 := c.Shuffle(42)
	assert.Equal(t, s1, s2)
	assert.ElementsMatch(t, c.Index, s1.Index)
	for i, ix := range s1.Index {
		// index travels with its row
		assert.Equal(t, c.Rows[ix], s1.Rows[i])
	}

	assert.Equal(t, 2, c.Head(2).Len())
	assert.Equal(t, 3, c.Head(0).Len())
	assert.Equal(t, 3, c.Head(10).Len())
}

func TestColumn(t *testing.T) {
	f := New([]Record{{Title: "x", Content: "y"}})
	col, err := f.Column("content")
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, col)

	_, err = f.Column("body")
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestSplitRoundTrip(t *testing.T) {
	f := New([]Record{{ID: 10, Title: "t", Content: "c", Tags: "g", Topic: "p"}}).Shuffle(1)
	b, err := f.ToSplit().Marshal()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), `{"columns":["id","title","content","tags","topic"],"index":[0],"data":[[10,`))

	s, err := UnmarshalSplit(b)
	require.NoError(t, err)
	g, err := FromSplit(s)
	require.NoError(t, err)
	assert.Equal(t, f, g)
}

func TestUnmarshalSplitRejectsRaggedData(t *testing.T) {
	_, err := UnmarshalSplit([]byte(`{"columns":["a","b"],"index":[0],"data":[[1]]}`))
	assert.Error(t, err)
	_, err = UnmarshalSplit([]byte(`{"columns":["a"],"index":[0,1],"data":[[1]]}`))
	assert.Error(t, err)
}
