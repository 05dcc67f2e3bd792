//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package explore

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/TextClusterLab/internal/cluster"
	"github.com/e-gun/TextClusterLab/internal/frame"
)

func init() {
	Msg.LLvl = -2
}

func testframe() (*frame.Frame, []string) {
	words := [][]string{
		{"flour", "sugar", "butter", "oven"},
		{"cipher", "hash", "encrypt", "block"},
	}
	var rows []frame.Record
	var corpus []string
	for i := 0; i < 10; i++ {
		w := words[i%2]
		txt := fmt.Sprintf("%s %s %s", w[i%4], w[(i+1)%4], w[(i+2)%4])
		rows = append(rows, frame.Record{ID: int64(i), Content: "<p>" + txt + "</p>\nmore", Topic: fmt.Sprint(i % 2)})
		corpus = append(corpus, txt)
	}
	f := frame.New(rows)
	// pretend these rows came from somewhere deep in a big shuffled dataset
	for i := range f.Index {
		f.Index[i] = 1000 + i*250
	}
	return f, corpus
}

func TestTrainAndExplore(t *testing.T) {
	f, corpus := testframe()
	base := cluster.NewPipeline(nil)
	params := cluster.ParamSet{cluster.PNCLUSTERS: 2, cluster.PSEED: 42}

	p, err := Train(context.Background(), base, corpus, params)
	require.NoError(t, err)
	assert.False(t, base.Fitted(), "base pipeline stays untouched")

	top, err := GetTopTerms(p, params)
	require.NoError(t, err)
	require.Len(t, top, 2)
	for _, words := range top {
		assert.LessOrEqual(t, len(words), 10)
	}

	labels := GetClusterNumbers(p)
	require.Len(t, labels, 10)
	for i := 2; i < 10; i++ {
		assert.Equal(t, labels[i%2], labels[i])
	}

	posts, err := GetClusterPosts(f, labels, top, params, 3)
	require.NoError(t, err)
	require.Len(t, posts, 6)
	assert.Equal(t, 0, posts[0].Cluster)
	assert.Equal(t, 1, posts[5].Cluster)
	for _, post := range posts {
		assert.Equal(t, 2, post.NumClusters)
		assert.Equal(t, "{'clusterer__n_clusters': 2, 'clusterer__random_state': 42}", post.ParamsStr)
		assert.Equal(t, top[post.Cluster], post.TopTokens)
	}
	// first rows of each cluster, in frame order
	assert.Less(t, posts[0].Index, posts[1].Index)
	assert.Less(t, posts[1].Index, posts[2].Index)
}

func TestTrainRejectsBadParams(t *testing.T) {
	_, corpus := testframe()
	_, err := Train(context.Background(), cluster.NewPipeline(nil), corpus, cluster.ParamSet{"clusterer__bogus": 1})
	assert.ErrorIs(t, err, cluster.ErrBadParam)
}

func TestGetClusterPostsMismatch(t *testing.T) {
	f, _ := testframe()
	_, err := GetClusterPosts(f, []int{0, 1}, nil, cluster.ParamSet{cluster.PNCLUSTERS: 2}, 5)
	assert.ErrorIs(t, err, ErrLabelMismatch)
}

func TestShowTopTenWords(t *testing.T) {
	top := map[int][]string{1: {"c", "d"}, 0: {"a", "b"}}
	assert.Equal(t, "Cluster 0: a, b\nCluster 1: c, d\n", ShowTopTenWords(top))
}

func TestExtractCleanText(t *testing.T) {
	top := map[int][]string{0: {"a", "b"}, 1: {"c", "d"}}
	params := cluster.ParamSet{cluster.PNCLUSTERS: 2}
	posts := []ClusterPost{
		{Index: 1234, Content: "<p>first</p>\n", Cluster: 0},
		{Index: 7, Content: "second\nline", Cluster: 1},
		{Index: 1234567, Content: " third ", Cluster: 1},
	}

	table := "Cluster 0: a, b\nCluster 1: c, d\n"
	want := table +
		"\nCluster = 1, Raw data index = 7, Hyper-Parameters = {'clusterer__n_clusters': 2}\nsecondline\n" +
		"\nCluster = 1, Raw data index = 1,234,567, Hyper-Parameters = {'clusterer__n_clusters': 2}\nthird\n" +
		"\n" +
		table +
		"\nCluster = 0, Raw data index = 1,234, Hyper-Parameters = {'clusterer__n_clusters': 2}\nfirst\n"
	assert.Equal(t, want, ExtractCleanTextFromClusterPosts(posts, top, params, []int{1, 0}))

	asc := ExtractCleanTextFromClusterPosts(posts, top, params, nil)
	assert.True(t, strings.HasPrefix(asc, table))
	assert.Equal(t, 2, strings.Count(asc, "Cluster 1: c, d\n"))
	assert.Equal(t, len(want), len(asc))
}

func TestPostsSplitRoundTrip(t *testing.T) {
	posts := []ClusterPost{
		{Index: 12, Content: "x", NumClusters: 3, Cluster: 2, TopTokens: []string{"a", "b"}, ParamsStr: "{}"},
		{Index: 4, Content: "y", NumClusters: 3, Cluster: 0, TopTokens: []string{"c"}, ParamsStr: "{}"},
	}
	b, err := PostsToSplit(posts).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"columns":["index","content","num_clusters","cluster","top_10_tokens","params_str"]`)

	s, err := frame.UnmarshalSplit(b)
	require.NoError(t, err)
	back, err := PostsFromSplit(s)
	require.NoError(t, err)
	assert.Equal(t, posts, back)

	_, err = PostsFromSplit(frame.Split{Columns: []string{"index"}})
	assert.ErrorIs(t, err, frame.ErrNoColumn)
}
