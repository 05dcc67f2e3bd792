//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package etl

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/e-gun/TextClusterLab/internal/lnch"
	"github.com/e-gun/TextClusterLab/internal/vv"
)

var (
	Msg = lnch.NewMessageMakerWithDefaults()

	ErrMismatch   = errors.New("archive and topic lists differ in length")
	ErrUnsafePath = errors.New("archive entry escapes its destination")
)

// Extract - unzip each topic's archive into rawDir unless "<rawDir>/<topic>.csv" is already there
func Extract(zips []string, topics []string, rawDir string) ([]string, error) {
	const (
		MSG1 = "Extract() unzipping %s from archive..."
		MSG2 = "Extract() found extracted file at %s; did nothing"
		MSG3 = "Extract() unpacked %d file(s) [%s]"
	)

	if len(zips) != len(topics) {
		return nil, fmt.Errorf("%d archives, %d topics: %w", len(zips), len(topics), ErrMismatch)
	}

	if err := os.MkdirAll(rawDir, vv.DIRPERMS); err != nil {
		return nil, err
	}

	paths := make([]string, len(topics))
	for i, t := range topics {
		paths[i] = filepath.Join(rawDir, t+vv.CSVSUFFIX)
		if _, err := os.Stat(paths[i]); err == nil {
			Msg.NOTE(fmt.Sprintf(MSG2, paths[i]))
			continue
		}
		Msg.NOTE(fmt.Sprintf(MSG1, filepath.Base(zips[i])))
		n, sz, err := Unzip(zips[i], rawDir)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", zips[i], err)
		}
		Msg.FYI(fmt.Sprintf(MSG3, n, humanize.Bytes(sz)))
	}
	return paths, nil
}

// Unzip - extract every entry of an archive below dest; returns the file count and bytes written
func Unzip(archive string, dest string) (int, uint64, error) {
	return unzipwith(archive, dest, func(name string) string { return name })
}

// unzipwith - as Unzip, but each entry name passes through rename first; "" skips the entry
func unzipwith(archive string, dest string, rename func(string) string) (int, uint64, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return 0, 0, err
	}
	defer zr.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return 0, 0, err
	}

	var count int
	var total uint64
	for _, zf := range zr.File {
		name := rename(zf.Name)
		if name == "" {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return count, total, fmt.Errorf("%s: %w", zf.Name, ErrUnsafePath)
		}

		if zf.FileInfo().IsDir() {
			if err = os.MkdirAll(target, vv.DIRPERMS); err != nil {
				return count, total, err
			}
			continue
		}

		if err = os.MkdirAll(filepath.Dir(target), vv.DIRPERMS); err != nil {
			return count, total, err
		}

		n, e := writeentry(zf, target)
		if e != nil {
			return count, total, e
		}
		count++
		total += uint64(n)
	}
	return count, total, nil
}

func writeentry(zf *zip.File, target string) (int64, error) {
	rc, err := zf.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, vv.WRITEPERMS)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
