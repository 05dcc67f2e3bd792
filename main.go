//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/e-gun/TextClusterLab/internal/etl"
	"github.com/e-gun/TextClusterLab/internal/explore"
	"github.com/e-gun/TextClusterLab/internal/flow"
	"github.com/e-gun/TextClusterLab/internal/lnch"
	"github.com/e-gun/TextClusterLab/internal/mm"
	"github.com/e-gun/TextClusterLab/internal/nb"
	"github.com/e-gun/TextClusterLab/internal/store"
	"github.com/e-gun/TextClusterLab/internal/web"
	"github.com/pkg/profile"
)

var Msg = lnch.NewMessageMakerWithDefaults()

func main() {
	const (
		MSG1  = "main() project root: C3%sC0; ledger: C3%sC0"
		MSG2  = "main() exporting results to PostgreSQL at C3%s:%dC0"
		MSG3  = "main() serve-only mode; nothing will be run"
		FAIL1 = "main() PostgreSQL export unavailable; results go to the ledger only: %s"
	)

	// go tool pprof --pdf ./TextClusterLab /var/folders/.../cpu.pprof > profile.pdf

	lnch.ConfigAtLaunch()
	cc := lnch.Config

	for _, m := range []*mm.MessageMaker{Msg, lnch.Msg, etl.Msg, explore.Msg, flow.Msg, nb.Msg, store.Msg, web.Msg} {
		lnch.UpdateMessageMakerWithConfig(m)
	}

	lnch.PrintVersion(*cc)
	lnch.PrintLicense()

	if cc.ProfileCPU {
		defer profile.Start().Stop()
	} else if cc.ProfileMEM {
		defer profile.Start(profile.MemProfile).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lp := nb.ProjectPath(cc, cc.LedgerPath)
	Msg.FYI(Msg.Color(fmt.Sprintf(MSG1, cc.ProjectDir, lp)))

	ledger, err := store.OpenLedger(lp)
	Msg.ForCaller("OpenLedger()").EC(err)
	defer ledger.Close()

	if cc.ServeOnly {
		Msg.NOTE(MSG3)
	} else {
		sinks := []store.Sink{ledger}
		if cc.PGLogin.Usable() {
			pg, e := store.NewPGExport(ctx, cc.PGLogin, cc.WorkerCount)
			if e != nil {
				Msg.CRIT(fmt.Sprintf(FAIL1, e.Error()))
			} else {
				Msg.NOTE(Msg.Color(fmt.Sprintf(MSG2, cc.PGLogin.Host, cc.PGLogin.Port)))
				defer pg.Close()
				sinks = append(sinks, pg)
			}
		}

		_, err = nb.RunNotebooks(ctx, nb.Notebooks(cc, sinks...), nb.ProjectPath(cc, cc.NotebookDir))
		Msg.ForCaller("RunNotebooks()").EC(err)
	}

	if cc.Serve || cc.ServeOnly {
		Msg.ForCaller("StartEchoServer()").EC(web.StartEchoServer(cc, ledger))
	}
}
