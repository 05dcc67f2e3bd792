//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"context"
	"fmt"

	"github.com/e-gun/TextClusterLab/internal/explore"
	"github.com/e-gun/TextClusterLab/internal/lnch"
	"github.com/e-gun/TextClusterLab/internal/store"
	"github.com/e-gun/TextClusterLab/internal/str"
	"github.com/e-gun/TextClusterLab/internal/vv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var Msg = lnch.NewMessageMakerWithDefaults()

// Ledger - what the review server reads from
type Ledger interface {
	Runs(ctx context.Context) ([]store.Run, error)
	Run(ctx context.Context, id string) (store.Run, error)
	Trials(ctx context.Context, id string, withSnap bool) ([]store.Trial, error)
	Posts(ctx context.Context, id string, pf store.PostFilter) ([]explore.ClusterPost, error)
}

// Server - the review routes and the ledger behind them
type Server struct {
	ldg Ledger
}

// NewEchoServer - an echo instance with middleware chosen by the configuration and every review route attached
func NewEchoServer(cc *str.CurrentConfiguration, ldg Ledger) *echo.Echo {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
		RLOGFMT = "i: ${remote_ip}\t r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
	)

	//
	// SETUP
	//

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = vv.TIMEOUTRD
	e.Server.WriteTimeout = vv.TIMEOUTWR

	if cc.EchoLog == 3 {
		e.Use(middleware.Logger())
	} else if cc.EchoLog == 2 {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT}))
	} else if cc.EchoLog == 1 {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	}

	e.Use(middleware.Recover())

	if cc.Gzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	}

	//
	// ROUTES
	//

	s := &Server{ldg: ldg}

	e.GET("/", s.RtFrontpage)
	e.GET("/runs", s.RtRuns)                    // "u: /runs"
	e.GET("/run/:id", s.RtRun)                  // "u: /run/3f2c..."
	e.GET("/run/:id/posts", s.RtPosts)          // "u: /run/3f2c.../posts?cluster=2&params=..."
	e.GET("/run/:id/chart", s.RtChart)          // "u: /run/3f2c.../chart"
	e.GET("/run/:id/reading/:seq", s.RtReading) // "u: /run/3f2c.../reading/0"

	return e
}

// StartEchoServer - start serving; this blocks and does not return while the program remains alive
func StartEchoServer(cc *str.CurrentConfiguration, ldg Ledger) error {
	const (
		MSG1 = "StartEchoServer() serving the results ledger at C3http://%s:%dC0"
	)
	e := NewEchoServer(cc, ldg)
	Msg.MAND(Msg.Color(fmt.Sprintf(MSG1, cc.HostIP, cc.HostPort)))
	return e.Start(fmt.Sprintf("%s:%d", cc.HostIP, cc.HostPort))
}
