//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package etl

import (
	"context"
	"fmt"

	"github.com/e-gun/TextClusterLab/internal/frame"
	"golang.org/x/sync/errgroup"
)

// ReadSingleCSV - one topic's CSV as a frame with its topic column filled in
func ReadSingleCSV(path string, topic string) (*frame.Frame, error) {
	const (
		MSG1 = "ReadSingleCSV() reading CSV at %s..."
		MSG2 = "ReadSingleCSV() read %d rows of '%s'"
	)
	Msg.FYI(fmt.Sprintf(MSG1, path))
	f, err := frame.ReadCSV(path, topic)
	if err != nil {
		return nil, err
	}
	Msg.PEEK(fmt.Sprintf(MSG2, f.Len(), topic))
	return f, nil
}

// Transform - read every CSV concurrently; frames come back in topic order
func Transform(ctx context.Context, paths []string, topics []string, workers int) ([]*frame.Frame, error) {
	if len(paths) != len(topics) {
		return nil, fmt.Errorf("%d files, %d topics: %w", len(paths), len(topics), ErrMismatch)
	}
	if workers < 1 {
		workers = 1
	}

	frames := make([]*frame.Frame, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range paths {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := ReadSingleCSV(paths[i], topics[i])
			if err != nil {
				return err
			}
			frames[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
