package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	handlers "github.com/NeuralTrust/ToxiGuard/pkg/handlers/http"
	"github.com/NeuralTrust/ToxiGuard/pkg/middleware"
	"github.com/NeuralTrust/ToxiGuard/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHandler struct {
	body string
}

func (h staticHandler) Handle(c *fiber.Ctx) error {
	return c.SendString(h.body)
}

func TestAPIRouter_BuildRoutes(t *testing.T) {
	transport := handlers.HandlerTransport{
		HomeHandler:       handlers.NewHomeHandler(),
		DebugEnvHandler:   staticHandler{body: "debug"},
		PredictHandler:    staticHandler{body: "predict"},
		HealthHandler:     handlers.NewHealthHandler(),
		GetVersionHandler: handlers.NewGetVersionHandler(),
	}
	mw := &middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logrus.New()),
		RequestIDMiddleware:    middleware.NewRequestIDMiddleware(),
	}

	app := fiber.New()
	require.NoError(t, router.NewAPIRouter(mw, transport).BuildRoutes(app))

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/", http.StatusOK, "ToxiGuard API is running!"},
		{http.MethodGet, "/debug-env", http.StatusOK, "debug"},
		{http.MethodPost, "/predict", http.StatusOK, "predict"},
		{http.MethodGet, "/health", http.StatusOK, ""},
		{http.MethodGet, "/version", http.StatusOK, ""},
		{http.MethodGet, "/docs/doc.json", http.StatusOK, ""},
		{http.MethodGet, "/models", http.StatusNotFound, ""},
		{http.MethodGet, "/predict", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
			if tt.body != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(body))
			}
		})
	}
}

func TestAPIRouter_InvalidTransport(t *testing.T) {
	err := router.NewAPIRouter(&middleware.Transport{}, handlers.HandlerTransport{}).BuildRoutes(fiber.New())
	assert.ErrorIs(t, err, router.ErrInvalidHandlerTransport)
}
