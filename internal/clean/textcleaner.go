//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package clean

import (
	"context"

	"github.com/e-gun/TextClusterLab/internal/frame"
	"github.com/e-gun/TextClusterLab/internal/gen"
	"golang.org/x/sync/errgroup"
)

// TextCleaner - CleanContent applied to one column of a frame; TransformTokens is the unjoined variant
type TextCleaner struct {
	TextColumn string
	RemoveNum  bool
	Stops      map[string]struct{}
	MinLen     int
	MaxLen     int
	Workers    int
}

// NewTextCleaner - a joining cleaner over col
func NewTextCleaner(col string, stops []string) *TextCleaner {
	return &TextCleaner{
		TextColumn: col,
		Stops:      gen.ToSet(stops),
		Workers:    1,
	}
}

func (tc *TextCleaner) options() Options {
	return Options{Stops: tc.Stops, RemoveNum: tc.RemoveNum, MinLen: tc.MinLen, MaxLen: tc.MaxLen}
}

// Fit - nothing to learn
func (tc *TextCleaner) Fit(_ *frame.Frame) *TextCleaner {
	return tc
}

// Transform - one cleaned string per row, in row order
func (tc *TextCleaner) Transform(ctx context.Context, f *frame.Frame) ([]string, error) {
	col, err := f.Column(tc.TextColumn)
	if err != nil {
		return nil, err
	}

	o := tc.options()
	out := make([]string, len(col))

	w := tc.Workers
	if w < 1 {
		w = 1
	}
	size := (len(col) + w - 1) / w
	if size < 1 {
		size = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w)
	start := 0
	for _, chunk := range gen.ChunkSlice(col, size) {
		offset := start
		chunk := chunk
		start += len(chunk)
		g.Go(func() error {
			for i, txt := range chunk {
				if i%512 == 0 {
					if e := gctx.Err(); e != nil {
						return e
					}
				}
				out[offset+i] = CleanContent(txt, o)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TransformTokens - the unjoined variant: one token slice per row
func (tc *TextCleaner) TransformTokens(f *frame.Frame) ([][]string, error) {
	col, err := f.Column(tc.TextColumn)
	if err != nil {
		return nil, err
	}
	o := tc.options()
	out := make([][]string, len(col))
	for i, txt := range col {
		out[i] = Tokens(txt, o)
	}
	return out, nil
}

// FitTransform - Fit then Transform
func (tc *TextCleaner) FitTransform(ctx context.Context, f *frame.Frame) ([]string, error) {
	return tc.Fit(f).Transform(ctx, f)
}
