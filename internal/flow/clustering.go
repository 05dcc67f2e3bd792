//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/e-gun/TextClusterLab/internal/clean"
	"github.com/e-gun/TextClusterLab/internal/cluster"
	"github.com/e-gun/TextClusterLab/internal/explore"
	"github.com/e-gun/TextClusterLab/internal/frame"
	"github.com/e-gun/TextClusterLab/internal/gen"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyGrid = errors.New("no hyperparameter combinations to try")

// TrialOptions - per-trial knobs that are not pipeline parameters
type TrialOptions struct {
	NumDocs    int   // posts to sample per cluster
	ReadOrder  []int // cluster order of the reading text; empty means ascending
	PlotPoints int   // documents to project for the scatter chart; 0 skips the projection
}

// TrialOutput - everything one point of the grid produced
type TrialOutput struct {
	Params   cluster.ParamSet
	Snapshot cluster.Snapshot
	Top      map[int][]string
	Labels   []int
	Sizes    []int
	Posts    []explore.ClusterPost
	Reading  string
	Points   []cluster.Point
	Inertia  float64
	Elapsed  time.Duration
}

// ClusterParams - everything the Clustering Workflow needs
type ClusterParams struct {
	Cleaner *clean.TextCleaner
	Base    *cluster.Pipeline
	Frame   *frame.Frame
	Grid    []cluster.ParamSet
	Workers int
	Options TrialOptions
}

// ClusterResult - the fan-in of every trial
type ClusterResult struct {
	Corpus  []string
	Trials  []TrialOutput
	Summary []explore.ClusterPost
	Reading string
}

// PreprocessText - clean the text column of every row
func PreprocessText(ctx context.Context, cleaner *clean.TextCleaner, f *frame.Frame) ([]string, error) {
	const (
		MSG1 = "PreprocessText() cleaning %d posts..."
		MSG2 = "PreprocessText() %d of %d posts have nothing left after cleaning"
	)
	Msg.NOTE(fmt.Sprintf(MSG1, f.Len()))
	corpus, err := cleaner.FitTransform(ctx, f)
	if err != nil {
		return nil, err
	}
	empty := 0
	for _, c := range corpus {
		if c == "" {
			empty++
		}
	}
	if empty > 0 {
		Msg.FYI(fmt.Sprintf(MSG2, empty, len(corpus)))
	}
	return corpus, nil
}

// ClusterData - train, top terms, assignments, sampled posts, and reading text for one point of the grid
func ClusterData(ctx context.Context, base *cluster.Pipeline, f *frame.Frame, corpus []string, params cluster.ParamSet, opt TrialOptions) (TrialOutput, error) {
	started := time.Now()
	out := TrialOutput{Params: params.Normalize()}

	p, err := explore.Train(ctx, base, corpus, out.Params)
	if err != nil {
		return out, err
	}
	// the grid point may override only some of the base pipeline's settings
	out.Params = p.Params.Normalize()

	if out.Top, err = explore.GetTopTerms(p, out.Params); err != nil {
		return out, err
	}
	out.Labels = explore.GetClusterNumbers(p)

	if out.Posts, err = explore.GetClusterPosts(f, out.Labels, out.Top, out.Params, opt.NumDocs); err != nil {
		return out, err
	}
	out.Reading = explore.ExtractCleanTextFromClusterPosts(out.Posts, out.Top, out.Params, opt.ReadOrder)

	if out.Snapshot, err = p.Snapshot(); err != nil {
		return out, err
	}
	out.Inertia = p.Inertia()

	out.Sizes = make([]int, len(out.Top))
	for _, l := range out.Labels {
		if l < len(out.Sizes) {
			out.Sizes[l]++
		}
	}

	if opt.PlotPoints > 0 {
		// a degenerate projection costs us a chart, not the trial
		if pts, e := p.Project2D(opt.PlotPoints); e == nil {
			out.Points = pts
		} else {
			Msg.FYI(fmt.Sprintf("ClusterData() no projection for %s: %s", out.Params.Short(), e.Error()))
		}
	}

	out.Elapsed = time.Since(started)
	return out, nil
}

// PerformClustering - fan out over the grid; outputs come back in grid order and the first failure cancels the rest
func PerformClustering(ctx context.Context, base *cluster.Pipeline, f *frame.Frame, corpus []string, grid []cluster.ParamSet, opt TrialOptions, workers int) ([]TrialOutput, error) {
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}
	if workers < 1 {
		workers = 1
	}

	outputs := make([]TrialOutput, len(grid))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range grid {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := ClusterData(gctx, base, f, corpus, grid[i], opt)
			if err != nil {
				return err
			}
			outputs[i] = o
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// CombineAllSummaries - every trial's sampled posts, one after the other
func CombineAllSummaries(outputs []TrialOutput) []explore.ClusterPost {
	const (
		MSG1 = "CombineAllSummaries() combining %d summary frames"
	)
	Msg.PEEK(fmt.Sprintf(MSG1, len(outputs)))
	pp := make([][]explore.ClusterPost, len(outputs))
	for i, o := range outputs {
		pp[i] = o.Posts
	}
	return gen.FlattenSlices(pp)
}

// SummarySplit - the combined summary frame; as with a plain concat each trial's index restarts at 0
func SummarySplit(outputs []TrialOutput) frame.Split {
	var s frame.Split
	for _, o := range outputs {
		part := explore.PostsToSplit(o.Posts)
		s.Columns = part.Columns
		s.Index = append(s.Index, part.Index...)
		s.Data = append(s.Data, part.Data...)
	}
	if s.Columns == nil {
		s = explore.PostsToSplit(nil)
	}
	return s
}

// CombineAllStrings - the reading texts of every trial separated by a blank line
func CombineAllStrings(strs []string) string {
	Msg.PEEK("CombineAllStrings() combining string of posts to read")
	return strings.Join(strs, "\n\n")
}

// RunClusteringTrials - preprocess -> fan out over the grid -> fan in
func RunClusteringTrials(ctx context.Context, cp ClusterParams) (ClusterResult, error) {
	const (
		MSG1 = "cleaned %d posts"
		MSG2 = "ran %d clustering trial(s) on %d worker(s)"
		MSG3 = "combined %d sampled posts"
	)

	start := time.Now()
	previous := time.Now()
	var res ClusterResult

	corpus, err := PreprocessText(ctx, cp.Cleaner, cp.Frame)
	if err != nil {
		return res, err
	}
	res.Corpus = corpus
	Msg.Timer("B1", fmt.Sprintf(MSG1, len(corpus)), start, previous)
	previous = time.Now()

	res.Trials, err = PerformClustering(ctx, cp.Base, cp.Frame, corpus, cp.Grid, cp.Options, cp.Workers)
	if err != nil {
		return res, err
	}
	Msg.Timer("B2", fmt.Sprintf(MSG2, len(res.Trials), cp.Workers), start, previous)
	previous = time.Now()

	res.Summary = CombineAllSummaries(res.Trials)
	reading := make([]string, len(res.Trials))
	for i, t := range res.Trials {
		reading[i] = t.Reading
	}
	res.Reading = CombineAllStrings(reading)
	Msg.Timer("B3", fmt.Sprintf(MSG3, len(res.Summary)), start, previous)
	Msg.HeapReport("RunClusteringTrials()", false)
	return res, nil
}
