package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/atsconvert/pkg/health"
)

type stubChecker struct{ err error }

func (s stubChecker) Name() string                { return "stub" }
func (s stubChecker) Check(context.Context) error { return s.err }

func TestHealthAndReady(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler(health.NewService(stubChecker{}))
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReadyFailsWhenDependencyDown(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler(health.NewService(stubChecker{err: errors.New("db down")}))
	app.Get("/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
