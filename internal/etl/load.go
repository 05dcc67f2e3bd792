//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package etl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/e-gun/TextClusterLab/internal/frame"
	"github.com/e-gun/TextClusterLab/internal/vv"
	"github.com/parquet-go/parquet-go"
)

// ParquetPath - where Load() puts the consolidated dataset
func ParquetPath(dataDir string) string {
	return filepath.Join(dataDir, vv.PARQUETNAME)
}

// Load - concat, shuffle, and write one gzip Parquet file; an existing file is left alone
func Load(frames []*frame.Frame, dataDir string, seed int64) (string, bool, error) {
	const (
		MSG1 = "Load() exporting %d rows to Parquet file..."
		MSG2 = "Load() found Parquet file locally at %s; did nothing"
		MSG3 = "Load() wrote %s [%s]"
	)

	pq := ParquetPath(dataDir)
	if _, err := os.Stat(pq); err == nil {
		Msg.NOTE(fmt.Sprintf(MSG2, pq))
		return pq, false, nil
	}

	if err := os.MkdirAll(dataDir, vv.DIRPERMS); err != nil {
		return pq, false, err
	}

	df := frame.Concat(frames...).Shuffle(seed)
	Msg.NOTE(fmt.Sprintf(MSG1, df.Len()))

	// a half-written export must never look finished
	tmp := pq + ".partial"
	if err := WriteParquet(tmp, df.Rows); err != nil {
		_ = os.Remove(tmp)
		return pq, false, err
	}
	if err := os.Rename(tmp, pq); err != nil {
		return pq, false, err
	}

	if fi, err := os.Stat(pq); err == nil {
		Msg.FYI(fmt.Sprintf(MSG3, pq, humanize.Bytes(uint64(fi.Size()))))
	}
	return pq, true, nil
}

// WriteParquet - rows to a gzip-compressed Parquet file; no index column
func WriteParquet(path string, rows []frame.Record) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}

	w := parquet.NewGenericWriter[frame.Record](fh, parquet.Compression(&parquet.Gzip))
	if _, err = w.Write(rows); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write parquet: %w", err)
	}
	if err = w.Close(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return fh.Close()
}

// ReadParquet - the first n rows of a Parquet dataset (all of them if n <= 0)
func ReadParquet(path string, n int) (*frame.Frame, error) {
	const (
		MSG1 = "ReadParquet() read %d of %d rows from %s"
	)

	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := parquet.NewGenericReader[frame.Record](fh)
	defer r.Close()

	total := int(r.NumRows())
	if n <= 0 || n > total {
		n = total
	}

	rows := make([]frame.Record, n)
	got := 0
	for got < n {
		k, e := r.Read(rows[got:])
		got += k
		if errors.Is(e, io.EOF) {
			break
		}
		if e != nil {
			return nil, fmt.Errorf("read parquet %s: %w", path, e)
		}
		if k == 0 {
			break
		}
	}

	Msg.FYI(fmt.Sprintf(MSG1, got, total, path))
	return frame.New(rows[:got]), nil
}
