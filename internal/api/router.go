package api

import (
	"github.com/datallboy/pagefetch/internal/api/controllers"
	"github.com/datallboy/pagefetch/internal/app"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	fetchCtrl := controllers.NewFetchController(app)
	runsCtrl := &controllers.RunsController{App: app}

	// Runs are synchronous; the response carries the run's outcome
	e.POST("/api/fetch", fetchCtrl.Handle)

	e.GET("/api/runs", runsCtrl.List)
	e.GET("/api/runs/:id", runsCtrl.Get)
}
