//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package etl

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// DeleteFile - remove one intermediate file
func DeleteFile(path string) error {
	const (
		MSG1 = "DeleteFile() deleting intermediate CSV at %s"
	)
	Msg.FYI(fmt.Sprintf(MSG1, path))
	return os.Remove(path)
}

// CleanUpFiles - delete the intermediate files concurrently
func CleanUpFiles(ctx context.Context, paths []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return DeleteFile(p)
		})
	}
	return g.Wait()
}
