package router

import (
	"errors"

	_ "github.com/NeuralTrust/ToxiGuard/docs"
	handlers "github.com/NeuralTrust/ToxiGuard/pkg/handlers/http"
	"github.com/NeuralTrust/ToxiGuard/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	h := r.handlerTransport
	if h.HomeHandler == nil || h.PredictHandler == nil || h.DebugEnvHandler == nil {
		return ErrInvalidHandlerTransport
	}

	if middlewares := r.middlewareTransport.GetMiddlewares(); len(middlewares) > 0 {
		router.Use(middlewares...)
	}

	router.Get("/", h.HomeHandler.Handle)
	router.Get("/debug-env", h.DebugEnvHandler.Handle)
	router.Post("/predict", h.PredictHandler.Handle)

	if h.HealthHandler != nil {
		router.Get("/health", h.HealthHandler.Handle)
	}
	if h.GetVersionHandler != nil {
		router.Get("/version", h.GetVersionHandler.Handle)
	}
	if h.ListModelsHandler != nil {
		router.Get("/models", h.ListModelsHandler.Handle)
	}

	router.Get("/docs/*", swagger.HandlerDefault)

	return nil
}
