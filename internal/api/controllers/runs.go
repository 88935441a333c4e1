package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/datallboy/pagefetch/internal/app"
	"github.com/datallboy/pagefetch/internal/store"
	"github.com/labstack/echo/v5"
)

type RunsController struct {
	App *app.Context
}

func (ctrl *RunsController) List(c *echo.Context) error {
	if ctrl.App.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "history is disabled"})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		}
		limit = n
	}

	runs, err := ctrl.App.Store.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, runs)
}

func (ctrl *RunsController) Get(c *echo.Context) error {
	if ctrl.App.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "history is disabled"})
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id"})
	}

	run, err := ctrl.App.Store.GetRun(c.Request().Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "run not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, run)
}
