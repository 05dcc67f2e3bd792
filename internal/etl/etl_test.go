//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package etl

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/TextClusterLab/internal/frame"
)

func init() {
	Msg.LLvl = -2
}

func makezip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0644))
}

func topiccsv(topic string, n int) string {
	s := "id,title,content,tags\n"
	for i := 0; i < n; i++ {
		s += fmt.Sprintf("%d,%s %d,\"<p>about %s</p>\",%s\n", i, topic, i, topic, topic)
	}
	return s
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	topics := []string{"cooking", "travel"}
	var zips []string
	for _, tp := range topics {
		z := filepath.Join(dir, tp+".csv.zip")
		makezip(t, z, map[string]string{tp + ".csv": topiccsv(tp, 3)})
		zips = append(zips, z)
	}

	paths, err := Extract(zips, topics, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(raw, "cooking.csv"), filepath.Join(raw, "travel.csv")}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	// already extracted: the archive is not even opened
	require.NoError(t, os.Remove(zips[0]))
	again, err := Extract(zips, topics, raw)
	require.NoError(t, err)
	assert.Equal(t, paths, again)
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Extract([]string{"a.zip"}, []string{"a", "b"}, dir)
	assert.ErrorIs(t, err, ErrMismatch)

	_, err = Extract([]string{filepath.Join(dir, "missing.zip")}, []string{"a"}, dir)
	assert.Error(t, err)

	evil := filepath.Join(dir, "evil.zip")
	makezip(t, evil, map[string]string{"../../escape.csv": "x"})
	_, err = Extract([]string{evil}, []string{"evil"}, filepath.Join(dir, "raw"))
	assert.ErrorIs(t, err, ErrUnsafePath)
}

func TestTransformKeepsTopicOrder(t *testing.T) {
	dir := t.TempDir()
	topics := []string{"biology", "crypto", "diy", "robotics"}
	var paths []string
	for i, tp := range topics {
		p := filepath.Join(dir, tp+".csv")
		require.NoError(t, os.WriteFile(p, []byte(topiccsv(tp, i+1)), 0644))
		paths = append(paths, p)
	}

	frames, err := Transform(context.Background(), paths, topics, 3)
	require.NoError(t, err)
	require.Len(t, frames, 4)
	for i, f := range frames {
		assert.Equal(t, i+1, f.Len())
		assert.Equal(t, topics[i], f.Rows[0].Topic)
	}

	_, err = Transform(context.Background(), append(paths[:1:1], filepath.Join(dir, "nope.csv")), topics[:2], 2)
	assert.Error(t, err)

	_, err = Transform(context.Background(), paths, topics[:1], 2)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestLoadAndReadParquet(t *testing.T) {
	dir := t.TempDir()
	a := frame.New([]frame.Record{{ID: 1, Content: "one", Topic: "a"}, {ID: 2, Content: "two", Topic: "a"}})
	b := frame.New([]frame.Record{{ID: 3, Content: "three", Topic: "b"}})

	pq, wrote, err := Load([]*frame.Frame{a, b}, dir, 42)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, ParquetPath(dir), pq)
	assert.NoFileExists(t, pq+".partial")

	all, err := ReadParquet(pq, 0)
	require.NoError(t, err)
	require.Equal(t, 3, all.Len())
	assert.Equal(t, []int{0, 1, 2}, all.Index)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, all.Topics())
	assert.Equal(t, frame.Concat(a, b).Shuffle(42).Rows, all.Rows)

	head, err := ReadParquet(pq, 2)
	require.NoError(t, err)
	assert.Equal(t, all.Rows[:2], head.Rows)

	// second run leaves the file alone
	_, wrote, err = Load([]*frame.Frame{b}, dir, 1)
	require.NoError(t, err)
	assert.False(t, wrote)
	again, err := ReadParquet(pq, -1)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Len())

	_, err = ReadParquet(filepath.Join(dir, "missing.parquet"), 1)
	assert.Error(t, err)
}

func TestCleanUpFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, fmt.Sprintf("%d.csv", i))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		paths = append(paths, p)
	}
	require.NoError(t, CleanUpFiles(context.Background(), paths))
	for _, p := range paths {
		assert.NoFileExists(t, p)
	}
	assert.Error(t, CleanUpFiles(context.Background(), paths))
}

func TestStopwords(t *testing.T) {
	var zipped bytes.Buffer
	zw := zip.NewWriter(&zipped)
	w, err := zw.Create("stopwords/english")
	require.NoError(t, err)
	_, _ = w.Write([]byte("the\nand\n\nthe\nof\n"))
	_, err = zw.Create("stopwords/")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(zipped.Bytes())
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "corpora", "stopwords")
	require.NoError(t, GetStopwords(context.Background(), dir, srv.URL))
	assert.FileExists(t, filepath.Join(dir, "english"))

	stops, err := ReadStopwords(dir, "english")
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "and", "of"}, stops)

	// present: no second download
	require.NoError(t, GetStopwords(context.Background(), dir, srv.URL))
	assert.Equal(t, 1, hits)
}

func TestStopwordsFallbackAndFailure(t *testing.T) {
	stops, err := ReadStopwords(t.TempDir(), "english")
	require.NoError(t, err)
	assert.Contains(t, stops, "the")
	assert.Len(t, stops, len(EnglishStops))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()
	assert.Error(t, GetStopwords(context.Background(), filepath.Join(t.TempDir(), "sw"), srv.URL))
}
