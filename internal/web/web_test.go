//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-gun/TextClusterLab/internal/cluster"
	"github.com/e-gun/TextClusterLab/internal/explore"
	"github.com/e-gun/TextClusterLab/internal/flow"
	"github.com/e-gun/TextClusterLab/internal/lnch"
	"github.com/e-gun/TextClusterLab/internal/store"
)

func init() {
	Msg.LLvl = -2
	store.Msg.LLvl = -2
}

func seeded(t *testing.T) (*store.Ledger, string) {
	t.Helper()
	l, err := store.OpenLedger(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	ps := cluster.ParamSet{cluster.PNCLUSTERS: 2, cluster.PSEED: 42}
	top := map[int][]string{0: {"flour", "oven"}, 1: {"cipher", "hash"}}
	out := flow.TrialOutput{
		Params:   ps,
		Snapshot: cluster.Snapshot{Params: ps},
		Top:      top,
		Sizes:    []int{3, 4},
		Reading:  "Cluster 0: flour, oven\n",
		Points:   []cluster.Point{{Doc: 0, Cluster: 0, X: 0.1, Y: 0.2}, {Doc: 1, Cluster: 1, X: -0.3, Y: 0.4}},
		Posts: []explore.ClusterPost{
			{Index: 7, Content: "bread", NumClusters: 2, Cluster: 0, TopTokens: top[0], ParamsStr: ps.String()},
			{Index: 9, Content: "keys", NumClusters: 2, Cluster: 1, TopTokens: top[1], ParamsStr: ps.String()},
		},
	}

	r := store.Run{ID: store.NewRunID(), Notebook: "02_eda-20260301-120000.json", Started: time.Now(), Finished: time.Now(), Samples: 7}
	require.NoError(t, store.Record(context.Background(), r, []flow.TrialOutput{out}, l))
	return l, r.ID
}

func get(t *testing.T, l Ledger, url string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewEchoServer(lnch.BuildDefaultConfig(), l)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	l, id := seeded(t)

	rec := get(t, l, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/run/"+id+"/chart")

	rec = get(t, l, "/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)

	rec = get(t, l, "/run/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	var rd RunDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rd))
	require.Len(t, rd.Trials, 1)
	assert.Equal(t, []int{3, 4}, rd.Trials[0].Sizes)

	rec = get(t, l, "/run/"+id+"/posts?cluster=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var posts []explore.ClusterPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, 9, posts[0].Index)
	assert.Equal(t, []string{"cipher", "hash"}, posts[0].TopTokens)

	rec = get(t, l, "/run/"+id+"/posts")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	assert.Len(t, posts, 2)

	rec = get(t, l, "/run/"+id+"/chart")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")

	rec = get(t, l, "/run/"+id+"/reading/0")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cluster 0: flour, oven\n", rec.Body.String())
}

func TestRouteErrors(t *testing.T) {
	l, id := seeded(t)

	assert.Equal(t, http.StatusNotFound, get(t, l, "/run/nope").Code)
	assert.Equal(t, http.StatusNotFound, get(t, l, "/run/nope/posts").Code)
	assert.Equal(t, http.StatusNotFound, get(t, l, "/run/nope/chart").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, l, "/run/"+id+"/posts?cluster=x").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, l, "/run/"+id+"/reading/x").Code)
	assert.Equal(t, http.StatusNotFound, get(t, l, "/run/"+id+"/reading/5").Code)
}

func TestEmptyLedger(t *testing.T) {
	l, err := store.OpenLedger(":memory:")
	require.NoError(t, err)
	defer l.Close()

	rec := get(t, l, "/")
	assert.Contains(t, rec.Body.String(), "the ledger is empty")
	rec = get(t, l, "/runs")
	assert.JSONEq(t, "[]", rec.Body.String())
}
