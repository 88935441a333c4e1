package controllers

import (
	"context"
	"net/http"
	"sync"

	"github.com/datallboy/pagefetch/internal/app"
	"github.com/datallboy/pagefetch/internal/domain"
	"github.com/labstack/echo/v5"
)

type FetchController struct {
	App *app.Context

	// one pipeline run at a time
	mu sync.Mutex
}

func NewFetchController(a *app.Context) *FetchController {
	return &FetchController{App: a}
}

// Handle runs the pipeline for the posted URL and returns its Outcome
func (ctrl *FetchController) Handle(c *echo.Context) error {
	var req FetchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	// A client disconnect must not kill the download or drop the history row
	ctx := context.WithoutCancel(c.Request().Context())

	ctrl.mu.Lock()
	outcome := ctrl.App.Fetch(ctx, req.URL)
	ctrl.mu.Unlock()

	return c.JSON(statusFor(outcome), outcome)
}

func statusFor(o domain.Outcome) int {
	if o.Succeeded() {
		return http.StatusOK
	}

	switch o.ErrorKind {
	case domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindDownload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
