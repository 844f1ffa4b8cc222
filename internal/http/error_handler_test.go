package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheJazzDev/orits-fashion/internal/http/handlers"
)

func newErrorApp() *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews("../../web/templates", false),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("db timeout: secret trace")
	})
	app.Get("/api/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: relation secret_table does not exist")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	return app
}

func TestErrorHandlerFriendlyPage(t *testing.T) {
	app := newErrorApp()

	var resp *http.Response
	entries := captureLogs(t, func() {
		var err error
		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Something went wrong")
	assert.NotContains(t, body, "secret")

	logged, ok := findLog(entries, "server.error")
	require.True(t, ok)
	assert.Contains(t, logged.Err, "db timeout")
}

func TestErrorHandlerJSONUnderAPI(t *testing.T) {
	app := newErrorApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Something went wrong. Please try again."}`, readBody(t, resp))
}

func TestErrorHandlerKeepsClientErrors(t *testing.T) {
	app := newErrorApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "short and stout")
}
