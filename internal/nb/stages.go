//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package nb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/e-gun/TextClusterLab/internal/clean"
	"github.com/e-gun/TextClusterLab/internal/cluster"
	"github.com/e-gun/TextClusterLab/internal/etl"
	"github.com/e-gun/TextClusterLab/internal/explore"
	"github.com/e-gun/TextClusterLab/internal/flow"
	"github.com/e-gun/TextClusterLab/internal/gen"
	"github.com/e-gun/TextClusterLab/internal/store"
	"github.com/e-gun/TextClusterLab/internal/str"
	"github.com/e-gun/TextClusterLab/internal/vv"
)

// ProjectPath - p if absolute, otherwise p below the project root
func ProjectPath(cc *str.CurrentConfiguration, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cc.ProjectDir, p)
}

// ZipPaths - "<raw>/<topic>.csv.zip" for every topic
func ZipPaths(cc *str.CurrentConfiguration) []string {
	raw := ProjectPath(cc, cc.RawDataDir)
	zz := make([]string, len(cc.Topics))
	for i, t := range cc.Topics {
		zz[i] = filepath.Join(raw, t+vv.ZIPSUFFIX)
	}
	return zz
}

// DefaultGrid - the grid to try: the configured ParamGrid or else the single point {n_clusters, random_state}
func DefaultGrid(cc *str.CurrentConfiguration) []cluster.ParamSet {
	if len(cc.ParamGrid) > 0 {
		return cluster.ExpandGrid(cc.ParamGrid)
	}
	return cluster.ExpandGrid(map[string][]any{
		cluster.PNCLUSTERS: {cc.NClusters},
		cluster.PSEED:      {cc.RandomState},
	})
}

// Notebooks - the stages the configuration asks for, in order
func Notebooks(cc *str.CurrentConfiguration, sinks ...store.Sink) []Notebook {
	var nbs []Notebook
	if !cc.SkipRetrieve {
		nbs = append(nbs, GetData(cc))
	}
	if !cc.SkipCluster {
		nbs = append(nbs, EDA(cc, sinks...))
	}
	return nbs
}

// GetData - the Data Extraction Workflow as a notebook
func GetData(cc *str.CurrentConfiguration) Notebook {
	zips := ZipPaths(cc)
	raw := ProjectPath(cc, cc.RawDataDir)

	params := []Param{
		{"topics", cc.Topics},
		{"zip_file_paths", zips},
		{"raw_data_dir", raw},
		{"stopwords_dir", cc.StopwordsDir},
	}

	run := func(ctx context.Context, ex *Execution) error {
		res, err := flow.RetrieveData(ctx, flow.RetrieveParams{
			ZipPaths:         zips,
			Topics:           cc.Topics,
			RawDataDir:       raw,
			StopwordsDir:     cc.StopwordsDir,
			StopwordsURL:     cc.StopwordsURL,
			ShuffleSeed:      int64(cc.ShuffleSeed),
			Workers:          cc.WorkerCount,
			KeepIntermediate: cc.KeepIntermediate,
		})
		if err != nil {
			return err
		}
		ex.AddCell("extract", strings.Join(res.CSVPaths, "\n"))
		if res.Wrote {
			ex.AddCell("load", fmt.Sprintf("wrote %d rows to %s", res.Rows, res.ParquetPath))
		} else {
			ex.AddCell("load", fmt.Sprintf("kept the existing %s", res.ParquetPath))
		}
		ex.AddCell("stopwords", cc.StopwordsDir)
		return nil
	}

	return Notebook{Name: vv.NBGETDATA, Params: params, Run: run}
}

// EDA - the Clustering Workflow as a notebook: sample -> clean -> grid -> summaries -> ledger and charts
func EDA(cc *str.CurrentConfiguration, sinks ...store.Sink) Notebook {
	raw := ProjectPath(cc, cc.RawDataDir)
	grid := DefaultGrid(cc)

	gridstr := make([]string, len(grid))
	for i, g := range grid {
		gridstr[i] = g.String()
	}

	params := []Param{
		{"raw_data_dir", raw},
		{"num_samples_to_use", cc.NumSamples},
		{"n_clusters", cc.NClusters},
		{"kmeans_random_state", cc.RandomState},
		{"num_docs_to_read", cc.NumDocsToRead},
		{"param_grid", gridstr},
	}

	run := func(ctx context.Context, ex *Execution) error {
		f, err := etl.ReadParquet(etl.ParquetPath(raw), cc.NumSamples)
		if err != nil {
			return err
		}
		ex.AddCell("sample", fmt.Sprintf("%d rows; %s", f.Len(), topiccounts(f.Topics())))

		stops, err := etl.ReadStopwords(cc.StopwordsDir, cc.StopwordsLang)
		if err != nil {
			return err
		}

		cleaner := clean.NewTextCleaner(cc.TextColumn, stops)
		cleaner.RemoveNum = cc.RemoveNum
		cleaner.MinLen = cc.MinLen
		cleaner.MaxLen = cc.MaxLen
		cleaner.Workers = cc.WorkerCount

		base := cluster.NewPipeline(stops)
		if err = base.SetParams(cluster.ParamSet{cluster.PNCLUSTERS: cc.NClusters, cluster.PSEED: cc.RandomState}); err != nil {
			return err
		}

		res, err := flow.RunClusteringTrials(ctx, flow.ClusterParams{
			Cleaner: cleaner,
			Base:    base,
			Frame:   f,
			Grid:    grid,
			Workers: cc.WorkerCount,
			Options: flow.TrialOptions{
				NumDocs:    cc.NumDocsToRead,
				ReadOrder:  cc.ReadOrder,
				PlotPoints: vv.MAXPLOTPOINTS,
			},
		})
		if err != nil {
			return err
		}

		trials := make([]store.Trial, len(res.Trials))
		for i, o := range res.Trials {
			ex.AddCell("top terms: "+o.Params.Short(), explore.ShowTopTenWords(o.Top))
			if trials[i], err = store.TrialFromOutput("", i, o); err != nil {
				return err
			}
		}
		ex.AddCell("reading", res.Reading)

		js, err := flow.SummarySplit(res.Trials).Marshal()
		if err != nil {
			return err
		}
		if err = os.WriteFile(ex.Sibling("-summary.json"), js, vv.WRITEPERMS); err != nil {
			return err
		}
		if err = WriteChartFile(ex.Sibling(".html"), filepath.Base(ex.Output), trials); err != nil {
			return err
		}
		ex.AddCell("summary", fmt.Sprintf("%d sampled posts; frame at %s; charts at %s", len(res.Summary), ex.Sibling("-summary.json"), ex.Sibling(".html")))

		r := store.Run{
			ID:       store.NewRunID(),
			Notebook: filepath.Base(ex.Output),
			Started:  ex.Started,
			Finished: now(),
			Samples:  f.Len(),
		}
		if err = store.Record(ctx, r, res.Trials, sinks...); err != nil {
			return err
		}
		ex.AddCell("ledger", r.ID)
		return nil
	}

	return Notebook{Name: vv.NBEDA, Params: params, Run: run}
}

func topiccounts(tt map[string]int) string {
	parts := make([]string, 0, len(tt))
	for _, k := range gen.SortedKeys(tt) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, tt[k]))
	}
	return strings.Join(parts, ", ")
}
