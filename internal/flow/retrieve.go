//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package flow

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/e-gun/TextClusterLab/internal/etl"
	"github.com/e-gun/TextClusterLab/internal/lnch"
)

var Msg = lnch.NewMessageMakerWithDefaults()

// RetrieveParams - everything the Data Extraction Workflow needs
type RetrieveParams struct {
	ZipPaths         []string
	Topics           []string
	RawDataDir       string
	StopwordsDir     string
	StopwordsURL     string
	ShuffleSeed      int64
	Workers          int
	KeepIntermediate bool
}

// RetrieveResult - what the Data Extraction Workflow left on disk
type RetrieveResult struct {
	CSVPaths    []string
	ParquetPath string
	Wrote       bool
	Rows        int
}

// RetrieveData - extract -> transform -> load -> clean up -> stopwords
func RetrieveData(ctx context.Context, rp RetrieveParams) (RetrieveResult, error) {
	const (
		MSG1 = "extracted %d topic archive(s)"
		MSG2 = "read %d topic file(s)"
		MSG3 = "loaded %s"
		MSG4 = "removed intermediate files"
		MSG5 = "stopwords ready"
		MSG6 = "RetrieveData() found Parquet file locally at %s; skipped reading the CSVs"
	)

	start := time.Now()
	previous := time.Now()
	var res RetrieveResult

	paths, err := etl.Extract(rp.ZipPaths, rp.Topics, rp.RawDataDir)
	if err != nil {
		return res, err
	}
	res.CSVPaths = paths
	Msg.Timer("A1", fmt.Sprintf(MSG1, len(paths)), start, previous)
	previous = time.Now()

	// an existing Parquet file makes reading the CSVs pointless
	if pq := etl.ParquetPath(rp.RawDataDir); exists(pq) {
		res.ParquetPath = pq
		Msg.NOTE(fmt.Sprintf(MSG6, pq))
	} else {
		frames, e := etl.Transform(ctx, paths, rp.Topics, rp.Workers)
		if e != nil {
			return res, e
		}
		Msg.Timer("A2", fmt.Sprintf(MSG2, len(frames)), start, previous)
		previous = time.Now()

		for _, f := range frames {
			res.Rows += f.Len()
		}
		res.ParquetPath, res.Wrote, e = etl.Load(frames, rp.RawDataDir, rp.ShuffleSeed)
		if e != nil {
			return res, e
		}
	}
	Msg.Timer("A3", fmt.Sprintf(MSG3, res.ParquetPath), start, previous)
	previous = time.Now()

	if !rp.KeepIntermediate {
		if err = etl.CleanUpFiles(ctx, presentfiles(paths)); err != nil {
			return res, err
		}
		Msg.Timer("A4", MSG4, start, previous)
		previous = time.Now()
	}

	if err = etl.GetStopwords(ctx, rp.StopwordsDir, rp.StopwordsURL); err != nil {
		return res, err
	}
	Msg.Timer("A5", MSG5, start, previous)
	return res, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// presentfiles - the paths that are still there to delete
func presentfiles(paths []string) []string {
	var out []string
	for _, p := range paths {
		if exists(p) {
			out = append(out, p)
		}
	}
	return out
}
