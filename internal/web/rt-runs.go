//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/e-gun/TextClusterLab/internal/nb"
	"github.com/e-gun/TextClusterLab/internal/store"
	"github.com/e-gun/TextClusterLab/internal/vv"
	"github.com/labstack/echo/v4"
)

// RunDetail - a run and its trials, snapshots left out
type RunDetail struct {
	Run    store.Run     `json:"run"`
	Trials []store.Trial `json:"trials"`
}

var frontpage = template.Must(template.New("front").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body>
<h1>{{.Name}} {{.Version}}</h1>
{{if .Runs}}<table>
<tr><th>run</th><th>notebook</th><th>started</th><th>samples</th><th>trials</th><th></th></tr>
{{range .Runs}}<tr><td><a href="/run/{{.ID}}">{{.ID}}</a></td><td>{{.Notebook}}</td><td>{{.Started.Format "2006-01-02 15:04:05"}}</td><td>{{.Samples}}</td><td>{{.Trials}}</td><td><a href="/run/{{.ID}}/chart">chart</a></td></tr>
{{end}}</table>{{else}}<p>the ledger is empty</p>{{end}}
</body></html>
`))

// RtFrontpage - an HTML list of the recorded runs
func (s *Server) RtFrontpage(c echo.Context) error {
	runs, err := s.ldg.Runs(c.Request().Context())
	if err != nil {
		return ledgererror(err)
	}

	var buf bytes.Buffer
	data := map[string]any{"Name": vv.MYNAME, "Version": vv.VERSION, "Runs": runs}
	if err = frontpage.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// RtRuns - every run as JSON
func (s *Server) RtRuns(c echo.Context) error {
	runs, err := s.ldg.Runs(c.Request().Context())
	if err != nil {
		return ledgererror(err)
	}
	if runs == nil {
		runs = []store.Run{}
	}
	return JSONresponse(c, runs)
}

// RtRun - one run and its trials
func (s *Server) RtRun(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	r, err := s.ldg.Run(ctx, id)
	if err != nil {
		return ledgererror(err)
	}
	trials, err := s.ldg.Trials(ctx, id, false)
	if err != nil {
		return ledgererror(err)
	}
	return JSONresponse(c, RunDetail{Run: r, Trials: trials})
}

// RtPosts - the sampled posts of a run; "?cluster=" and "?params=" narrow the list
func (s *Server) RtPosts(c echo.Context) error {
	const (
		FAIL1 = "cluster must be a non-negative integer"
	)

	pf := store.PostFilter{Cluster: -1, Params: c.QueryParam("params")}
	if q := c.QueryParam("cluster"); q != "" {
		k, err := strconv.Atoi(q)
		if err != nil || k < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, FAIL1)
		}
		pf.Cluster = k
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := s.ldg.Run(ctx, id); err != nil {
		return ledgererror(err)
	}

	posts, err := s.ldg.Posts(ctx, id, pf)
	if err != nil {
		return ledgererror(err)
	}
	if posts == nil {
		return JSONresponse(c, []any{})
	}
	return JSONresponse(c, posts)
}

// RtChart - the charts page for a run
func (s *Server) RtChart(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	r, err := s.ldg.Run(ctx, id)
	if err != nil {
		return ledgererror(err)
	}
	trials, err := s.ldg.Trials(ctx, id, false)
	if err != nil {
		return ledgererror(err)
	}

	var buf bytes.Buffer
	if err = nb.WriteChartPage(&buf, r.Notebook, trials); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// RtReading - the reading text of one trial as plain text
func (s *Server) RtReading(c echo.Context) error {
	const (
		FAIL1 = "no trial %d in run %s"
	)

	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := c.Param("id")
	trials, err := s.ldg.Trials(c.Request().Context(), id, false)
	if err != nil {
		return ledgererror(err)
	}
	for _, t := range trials {
		if t.Seq == seq {
			return c.String(http.StatusOK, t.Reading)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf(FAIL1, seq, id))
}
