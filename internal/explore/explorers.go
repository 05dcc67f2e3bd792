//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package explore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/e-gun/TextClusterLab/internal/clean"
	"github.com/e-gun/TextClusterLab/internal/cluster"
	"github.com/e-gun/TextClusterLab/internal/frame"
	"github.com/e-gun/TextClusterLab/internal/gen"
	"github.com/e-gun/TextClusterLab/internal/lnch"
	"github.com/e-gun/TextClusterLab/internal/vv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	Msg = lnch.NewMessageMakerWithDefaults()

	ErrLabelMismatch = errors.New("cluster labels do not line up with the frame")
)

// ClusterPost - one sampled post and what the trial that sampled it found
type ClusterPost struct {
	Index       int      `json:"index"`
	Content     string   `json:"content"`
	NumClusters int      `json:"num_clusters"`
	Cluster     int      `json:"cluster"`
	TopTokens   []string `json:"top_10_tokens"`
	ParamsStr   string   `json:"params_str"`
}

// Train - a fresh copy of base, configured with params and fitted to the cleaned corpus
func Train(ctx context.Context, base *cluster.Pipeline, corpus []string, params cluster.ParamSet) (*cluster.Pipeline, error) {
	const (
		MSG1 = "Train() training with %s..."
		MSG2 = "Train() %s converged after %d iteration(s); inertia %.4f"
	)
	Msg.NOTE(fmt.Sprintf(MSG1, params.String()))

	p := base.Clone()
	if err := p.SetParams(params); err != nil {
		return nil, err
	}
	if err := p.Fit(ctx, corpus); err != nil {
		return nil, fmt.Errorf("train %s: %w", params.Short(), err)
	}

	s, _ := p.Snapshot()
	Msg.FYI(fmt.Sprintf(MSG2, params.Short(), s.NIter, p.Inertia()))
	return p, nil
}

// GetTopTerms - the ten heaviest terms of each of the n_clusters centroids
func GetTopTerms(p *cluster.Pipeline, params cluster.ParamSet) (map[int][]string, error) {
	const (
		MSG1 = "GetTopTerms() getting top %d tokens (by TFIDF weight) per cluster"
	)
	Msg.PEEK(fmt.Sprintf(MSG1, vv.NUMTOPTERMS))

	all, err := p.TopTerms(vv.NUMTOPTERMS)
	if err != nil {
		return nil, err
	}
	k := params.Normalize().Int(cluster.PNCLUSTERS, len(all))
	top := make(map[int][]string, k)
	for i := 0; i < k; i++ {
		top[i] = all[i]
	}
	return top, nil
}

// GetClusterNumbers - the cluster each row of the fitted corpus landed in
func GetClusterNumbers(p *cluster.Pipeline) []int {
	Msg.PEEK("GetClusterNumbers() getting assigned cluster numbers from the pipeline")
	return p.Labels()
}

// GetClusterPosts - for each cluster in turn, its first n rows in frame order
func GetClusterPosts(f *frame.Frame, labels []int, top map[int][]string, params cluster.ParamSet, n int) ([]ClusterPost, error) {
	const (
		MSG1 = "GetClusterPosts() getting up to %d posts for each of %d clusters"
	)

	if len(labels) != f.Len() {
		return nil, fmt.Errorf("%d labels, %d rows: %w", len(labels), f.Len(), ErrLabelMismatch)
	}

	ps := params.Normalize()
	k := ps.Int(cluster.PNCLUSTERS, 0)
	Msg.PEEK(fmt.Sprintf(MSG1, n, k))

	byc := make(map[int][]int, k)
	for i, c := range labels {
		if len(byc[c]) < n {
			byc[c] = append(byc[c], i)
		}
	}

	pstr := ps.String()
	var posts []ClusterPost
	for c := 0; c < k; c++ {
		for _, row := range byc[c] {
			posts = append(posts, ClusterPost{
				Index:       f.Index[row],
				Content:     f.Rows[row].Content,
				NumClusters: k,
				Cluster:     c,
				TopTokens:   top[c],
				ParamsStr:   pstr,
			})
		}
	}
	return posts, nil
}

// ShowTopTenWords - "Cluster k: w1, w2, ..." for every cluster
func ShowTopTenWords(top map[int][]string) string {
	var sb strings.Builder
	for _, k := range gen.SortedKeys(top) {
		sb.WriteString(topline(k, top[k]))
	}
	return sb.String()
}

func topline(k int, words []string) string {
	return fmt.Sprintf("Cluster %d: %s\n", k, strings.Join(words, ", "))
}

// ExtractCleanTextFromClusterPosts - a readable digest: for each cluster in order the full top-terms table and then its posts
func ExtractCleanTextFromClusterPosts(posts []ClusterPost, top map[int][]string, params cluster.ParamSet, order []int) string {
	const (
		MSG1 = "ExtractCleanTextFromClusterPosts() getting post %d (row index=%s) to read in cluster %d found using %s"
		POST = "\nCluster = %d, Raw data index = %s, Hyper-Parameters = %s\n%s\n"
	)

	if len(order) == 0 {
		order = gen.SortedKeys(top)
	}

	pr := message.NewPrinter(language.English)
	pstr := params.Normalize().String()
	short := params.Normalize().Short()

	var sb strings.Builder
	for q, c := range order {
		sb.WriteString(ShowTopTenWords(top))
		num := 0
		for _, p := range posts {
			if p.Cluster != c {
				continue
			}
			num++
			ix := pr.Sprintf("%d", p.Index)
			Msg.TMI(fmt.Sprintf(MSG1, num, ix, c, short))
			sb.WriteString(fmt.Sprintf(POST, c, ix, pstr, clean.StripForReading(p.Content)))
		}
		if q < len(order)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

//
// SPLIT ORIENTATION
//

var postcolumns = []string{"index", "content", "num_clusters", "cluster", "top_10_tokens", "params_str"}

// PostsToSplit - the summary frame of a trial, index 0..n-1
func PostsToSplit(posts []ClusterPost) frame.Split {
	s := frame.Split{Columns: postcolumns, Index: gen.Range(len(posts)), Data: make([][]any, len(posts))}
	for i, p := range posts {
		s.Data[i] = []any{p.Index, p.Content, p.NumClusters, p.Cluster, p.TopTokens, p.ParamsStr}
	}
	return s
}

// PostsFromSplit - the inverse of PostsToSplit
func PostsFromSplit(s frame.Split) ([]ClusterPost, error) {
	col := make(map[string]int, len(postcolumns))
	for _, c := range postcolumns {
		i := s.Col(c)
		if i < 0 {
			return nil, fmt.Errorf("%q: %w", c, frame.ErrNoColumn)
		}
		col[c] = i
	}

	posts := make([]ClusterPost, len(s.Data))
	for r, row := range s.Data {
		var err error
		p := ClusterPost{
			Content:   frame.AsString(row[col["content"]]),
			ParamsStr: frame.AsString(row[col["params_str"]]),
		}
		if p.Index, err = frame.AsInt(row[col["index"]]); err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		if p.NumClusters, err = frame.AsInt(row[col["num_clusters"]]); err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		if p.Cluster, err = frame.AsInt(row[col["cluster"]]); err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		switch tt := row[col["top_10_tokens"]].(type) {
		case []string:
			p.TopTokens = tt
		case []any:
			for _, t := range tt {
				p.TopTokens = append(p.TopTokens, frame.AsString(t))
			}
		}
		posts[r] = p
	}
	return posts, nil
}
