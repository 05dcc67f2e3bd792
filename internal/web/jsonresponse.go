//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"errors"
	"net/http"

	"github.com/e-gun/TextClusterLab/internal/store"
	"github.com/labstack/echo/v4"
)

// JSONresponse - send the JSON; jsr should be a json-ready struct
func JSONresponse(c echo.Context, jsr any) error {
	// JSONPretty shows up on the profiler; keep it for debugging only
	return c.JSON(http.StatusOK, jsr)
}

// ledgererror - an unknown run is a 404; anything else is the server's fault
func ledgererror(err error) error {
	if errors.Is(err, store.ErrNoRun) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	Msg.WARN("ledger query failed: " + err.Error())
	return echo.NewHTTPError(http.StatusInternalServerError, "ledger query failed")
}
