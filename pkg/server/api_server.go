package server

import (
	"fmt"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	handlers "github.com/NeuralTrust/ToxiGuard/pkg/handlers/http"
	"github.com/NeuralTrust/ToxiGuard/pkg/middleware"
	"github.com/NeuralTrust/ToxiGuard/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	APIServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewAPIServer(di APIServerDI) (*APIServer, error) {
	s := &APIServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
	if err := s.WithRouters(router.NewAPIRouter(&s.middlewareTransport, s.handlerTransport)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *APIServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting api server")
	return s.Router.Listen(addr)
}
