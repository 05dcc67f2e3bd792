//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package nb

import (
	"fmt"
	"io"
	"os"

	"github.com/e-gun/TextClusterLab/internal/store"
	"github.com/e-gun/TextClusterLab/internal/vv"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

//
// CHARTS
//

// ChartPage - for each trial a bar chart of cluster sizes and, when there are points, a scatter of the projected documents
func ChartPage(title string, trials []store.Trial) *components.Page {
	p := components.NewPage()
	p.PageTitle = title
	p.SetLayout(components.PageFlexLayout)

	for _, t := range trials {
		p.AddCharts(sizebar(t))
		if len(t.Points) > 0 {
			p.AddCharts(pointscatter(t))
		}
	}
	return p
}

// WriteChartPage - render ChartPage to w
func WriteChartPage(w io.Writer, title string, trials []store.Trial) error {
	return ChartPage(title, trials).Render(w)
}

// WriteChartFile - render ChartPage to a file
func WriteChartFile(path string, title string, trials []store.Trial) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = WriteChartPage(fh, title, trials); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

func chartinit() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{Width: vv.DEFAULTCHRTWDTH, Height: vv.DEFAULTCHRTHGHT})
}

func sizebar(t store.Trial) *charts.Bar {
	const (
		TTL = "Posts per cluster"
	)
	xax := make([]string, len(t.Sizes))
	data := make([]opts.BarData, len(t.Sizes))
	for c, n := range t.Sizes {
		xax[c] = fmt.Sprintf("%d: %s", c, headterm(t.Top[c]))
		data[c] = opts.BarData{Value: n}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		chartinit(),
		charts.WithTitleOpts(opts.Title{Title: TTL, Subtitle: t.Short}),
	)
	bar.SetXAxis(xax).AddSeries("posts", data)
	return bar
}

func pointscatter(t store.Trial) *charts.Scatter {
	const (
		TTL = "Documents on the centroid plane"
		SYM = 6
	)
	byc := make([][]opts.ScatterData, len(t.Sizes))
	for _, pt := range t.Points {
		if pt.Cluster < 0 || pt.Cluster >= len(byc) {
			continue
		}
		byc[pt.Cluster] = append(byc[pt.Cluster], opts.ScatterData{
			Name:       fmt.Sprintf("%d", pt.Doc),
			Value:      []float64{pt.X, pt.Y},
			SymbolSize: SYM,
		})
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		chartinit(),
		charts.WithTitleOpts(opts.Title{Title: TTL, Subtitle: t.Short}),
	)
	for c, pts := range byc {
		sc.AddSeries(fmt.Sprintf("%d: %s", c, headterm(t.Top[c])), pts)
	}
	return sc
}

func headterm(tt []string) string {
	if len(tt) == 0 {
		return "-"
	}
	return tt[0]
}
