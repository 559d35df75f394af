package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport holds the global middlewares in the order they are installed.
type Transport struct {
	PanicRecoverMiddleware Middleware
	RequestIDMiddleware    Middleware
	CORSMiddleware         Middleware
	MetricsMiddleware      Middleware
}

func (t *Transport) GetMiddlewares() []interface{} {
	var handlers []interface{}
	for _, m := range []Middleware{
		t.PanicRecoverMiddleware,
		t.RequestIDMiddleware,
		t.CORSMiddleware,
		t.MetricsMiddleware,
	} {
		if m != nil {
			handlers = append(handlers, m.Middleware())
		}
	}
	return handlers
}
