// package server contains the router, middleware & handlers for the REST surface
package server

import (
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/mixtape-labs/mixtape/internal/shared"
)

// New builds the HTTP server: an echo instance with the middleware
// stack applied and every route registered. The route table mixes
// literal and parameter first segments (/song/:id next to
// /:userId/likes), which echo resolves with static-over-param
// precedence.
func New(api *API, logger *log.Logger) *echo.Echo {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestLogger(logger))
	e.Use(echomw.Recover())

	api.Register(e)

	return e
}
