//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package flow

import (
	"archive/zip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/TextClusterLab/internal/clean"
	"github.com/e-gun/TextClusterLab/internal/cluster"
	"github.com/e-gun/TextClusterLab/internal/etl"
	"github.com/e-gun/TextClusterLab/internal/explore"
	"github.com/e-gun/TextClusterLab/internal/frame"
)

func init() {
	Msg.LLvl = -2
	etl.Msg.LLvl = -2
	explore.Msg.LLvl = -2
}

var topicwords = map[string][]string{
	"cooking": {"flour", "sugar", "butter", "oven", "bake"},
	"crypto":  {"cipher", "hash", "encrypt", "block", "nonce"},
	"travel":  {"flight", "hotel", "passport", "visa", "airport"},
}

func post(topic string, i int) string {
	w := topicwords[topic]
	return fmt.Sprintf("<p>The %s and the %s, with %s!</p>", w[i%5], w[(i+1)%5], w[(i+2)%5])
}

func testframe() *frame.Frame {
	var rows []frame.Record
	for i := 0; i < 8; i++ {
		for _, tp := range []string{"cooking", "crypto", "travel"} {
			rows = append(rows, frame.Record{ID: int64(len(rows)), Content: post(tp, i), Topic: tp})
		}
	}
	return frame.New(rows)
}

func clusterparams(grid []cluster.ParamSet) ClusterParams {
	stops := []string{"the", "and", "with"}
	tc := clean.NewTextCleaner("content", stops)
	return ClusterParams{
		Cleaner: tc,
		Base:    cluster.NewPipeline(stops),
		Frame:   testframe(),
		Grid:    grid,
		Workers: 2,
		Options: TrialOptions{NumDocs: 2, PlotPoints: 100},
	}
}

func TestRunClusteringTrials(t *testing.T) {
	grid := cluster.ExpandGrid(map[string][]any{
		cluster.PNCLUSTERS: {2, 3},
		cluster.PSEED:      {42},
		cluster.PUSEIDF:    {true, false},
	})
	require.Len(t, grid, 4)

	res, err := RunClusteringTrials(context.Background(), clusterparams(grid))
	require.NoError(t, err)
	assert.Len(t, res.Corpus, 24)
	assert.Equal(t, "flour sugar butter", res.Corpus[0])

	require.Len(t, res.Trials, 4)
	for i, tr := range res.Trials {
		// grid order survives the fan-out
		assert.Equal(t, grid[i].String(), tr.Params.String())
		k := tr.Params.Int(cluster.PNCLUSTERS, 0)
		assert.Len(t, tr.Top, k)
		assert.Len(t, tr.Sizes, k)
		assert.Len(t, tr.Labels, 24)
		assert.Len(t, tr.Posts, 2*k)
		assert.NotEmpty(t, tr.Points)
		assert.Equal(t, tr.Labels, tr.Snapshot.Labels)
		total := 0
		for _, s := range tr.Sizes {
			total += s
		}
		assert.Equal(t, 24, total)
	}

	assert.Len(t, res.Summary, 2*2+2*2+3*2+3*2)
	// every cluster section repeats the trial's whole top-terms table
	assert.Equal(t, 2+2+3+3, strings.Count(res.Reading, "Cluster 0: "))
	assert.True(t, strings.HasPrefix(res.Reading, "Cluster 0: "))

	sp := SummarySplit(res.Trials)
	assert.Len(t, sp.Data, len(res.Summary))
	assert.Equal(t, 0, sp.Index[4], "each trial's index restarts")
}

func TestThreeTopicsSeparate(t *testing.T) {
	grid := []cluster.ParamSet{{cluster.PNCLUSTERS: 3, cluster.PSEED: 42}}
	cp := clusterparams(grid)
	res, err := RunClusteringTrials(context.Background(), cp)
	require.NoError(t, err)

	labels := res.Trials[0].Labels
	bytopic := make(map[string]int)
	for i, r := range cp.Frame.Rows {
		if c, ok := bytopic[r.Topic]; ok {
			assert.Equal(t, c, labels[i])
		}
		bytopic[r.Topic] = labels[i]
	}
	assert.Len(t, bytopic, 3)
	assert.Equal(t, []int{8, 8, 8}, res.Trials[0].Sizes)
}

func TestGridInheritsBaseParams(t *testing.T) {
	grid := cluster.ExpandGrid(map[string][]any{cluster.PUSEIDF: {true, false}})
	cp := clusterparams(grid)
	require.NoError(t, cp.Base.SetParams(cluster.ParamSet{cluster.PNCLUSTERS: 3, cluster.PSEED: 42}))

	res, err := RunClusteringTrials(context.Background(), cp)
	require.NoError(t, err)
	require.Len(t, res.Trials, 2)
	for _, tr := range res.Trials {
		assert.Equal(t, 3, tr.Params.Int(cluster.PNCLUSTERS, 0))
		assert.Equal(t, 42, tr.Params.Int(cluster.PSEED, 0))
		assert.Len(t, tr.Top, 3)
		assert.Len(t, tr.Sizes, 3)
		assert.Len(t, tr.Posts, 2*3)
		assert.Contains(t, tr.Reading, "Hyper-Parameters = {'clusterer__n_clusters': 3")
	}
	assert.NotContains(t, cp.Base.Params, cluster.PUSEIDF, "the grid does not leak into the base")
}

func TestPerformClusteringErrors(t *testing.T) {
	cp := clusterparams(nil)
	_, err := PerformClustering(context.Background(), cp.Base, cp.Frame, []string{"a"}, nil, cp.Options, 2)
	assert.ErrorIs(t, err, ErrEmptyGrid)

	corpus, err := PreprocessText(context.Background(), cp.Cleaner, cp.Frame)
	require.NoError(t, err)
	grid := []cluster.ParamSet{
		{cluster.PNCLUSTERS: 2},
		{cluster.PNCLUSTERS: 500},
	}
	_, err = PerformClustering(context.Background(), cp.Base, cp.Frame, corpus, grid, cp.Options, 2)
	assert.ErrorIs(t, err, cluster.ErrTooFewDocs)
}

func TestCombineAllStrings(t *testing.T) {
	assert.Equal(t, "a\n\nb\n\nc", CombineAllStrings([]string{"a", "b", "c"}))
	assert.Equal(t, "", CombineAllStrings(nil))
	assert.Empty(t, CombineAllSummaries(nil))
	assert.Empty(t, SummarySplit(nil).Data)
}

func TestRetrieveData(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "data", "raw")
	require.NoError(t, os.MkdirAll(raw, 0755))

	topics := []string{"cooking", "crypto", "travel"}
	var zips []string
	for _, tp := range topics {
		var sb strings.Builder
		sb.WriteString("id,title,content,tags\n")
		for i := 0; i < 4; i++ {
			sb.WriteString(fmt.Sprintf("%d,t,\"%s\",x\n", i, post(tp, i)))
		}
		z := filepath.Join(raw, tp+".csv.zip")
		writezip(t, z, tp+".csv", sb.String())
		zips = append(zips, z)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zw := zip.NewWriter(w)
		f, _ := zw.Create("stopwords/english")
		_, _ = f.Write([]byte("the\nand\n"))
		_ = zw.Close()
	}))
	defer srv.Close()

	rp := RetrieveParams{
		ZipPaths:     zips,
		Topics:       topics,
		RawDataDir:   raw,
		StopwordsDir: filepath.Join(dir, "nltk", "stopwords"),
		StopwordsURL: srv.URL,
		ShuffleSeed:  42,
		Workers:      2,
	}
	res, err := RetrieveData(context.Background(), rp)
	require.NoError(t, err)
	assert.True(t, res.Wrote)
	assert.Equal(t, 12, res.Rows)
	for _, p := range res.CSVPaths {
		assert.NoFileExists(t, p)
	}
	assert.FileExists(t, filepath.Join(rp.StopwordsDir, "english"))

	f, err := etl.ReadParquet(res.ParquetPath, 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cooking": 4, "crypto": 4, "travel": 4}, f.Topics())

	// second run: the Parquet file is reused and the CSVs are kept
	rp.KeepIntermediate = true
	again, err := RetrieveData(context.Background(), rp)
	require.NoError(t, err)
	assert.False(t, again.Wrote)
	assert.Equal(t, res.ParquetPath, again.ParquetPath)
	for _, p := range again.CSVPaths {
		assert.FileExists(t, p)
	}
}

func writezip(t *testing.T, path, name, body string) {
	t.Helper()
	fh, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(fh)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, fh.Close())
}
