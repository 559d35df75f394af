package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/ToxiGuard/pkg/app/prediction"
	"github.com/NeuralTrust/ToxiGuard/pkg/common"
	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	domainResultLog "github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	handlers "github.com/NeuralTrust/ToxiGuard/pkg/handlers/http"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/classifier"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/httpx"
	infraLogger "github.com/NeuralTrust/ToxiGuard/pkg/infra/logger"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/resultlog"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/resultlog/kafka"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/resultlog/redis"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/resultlog/webhook"
	"github.com/NeuralTrust/ToxiGuard/pkg/middleware"
	"github.com/NeuralTrust/ToxiGuard/pkg/server"
	"github.com/NeuralTrust/ToxiGuard/pkg/version"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// @title ToxiGuard API
// @version 0.3.0
// @description Toxicity classification for short texts in Indian languages.
// @BasePath /
func main() {
	ctx := context.Background()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, closeLogger, err := infraLogger.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogger()

	prometheus.Initialize(prometheus.MetricsConfig{
		EnableLatency: cfg.Metrics.EnableLatency,
	})

	inferenceClient := httpx.NewFastHTTPClient(
		httpx.WithTimeout(cfg.Inference.Timeout),
		httpx.WithUserAgent(version.AppName+"/"+version.Version),
	)

	registry, err := classifier.BuildRegistry(ctx, cfg, classifier.ClassifiersDI{
		Logger: logger,
		Client: inferenceClient,
	})
	if err != nil {
		logger.Fatalf("failed to load models: %v", err)
	}

	// the spreadsheet webhook answers with a redirect, which net/http follows
	webhookClient := &http.Client{Timeout: webhook.DefaultTimeout}
	sinkLocator := resultlog.NewSinkLocator(
		resultlog.WithSink(webhook.SinkName, webhook.NewWebhookSink(webhookClient)),
		resultlog.WithSink(kafka.SinkName, kafka.NewKafkaSink()),
		resultlog.WithSink(redis.SinkName, redis.NewRedisSink()),
	)
	var sinks []domainResultLog.Sink
	if cfg.ResultLog.Enabled {
		sinks, err = sinkLocator.BuildSinks(cfg.ResultLog.Sinks)
		if err != nil {
			logger.Fatalf("failed to initialize result sinks: %v", err)
		}
	}
	recorder := resultlog.NewRecorder(logger, cfg.ResultLog, sinks)

	predictor := prediction.NewPredictor(logger, registry, recorder)

	middlewareTransport := middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		RequestIDMiddleware:    middleware.NewRequestIDMiddleware(),
		CORSMiddleware:         middleware.NewCORSGlobalMiddleware(cfg.CORS),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
	}

	handlerTransport := handlers.HandlerTransport{
		HomeHandler:       handlers.NewHomeHandler(),
		DebugEnvHandler:   handlers.NewDebugEnvHandler(cfg.Inference.Token),
		PredictHandler:    handlers.NewPredictHandler(logger, predictor),
		HealthHandler:     handlers.NewHealthHandler(),
		GetVersionHandler: handlers.NewGetVersionHandler(),
		ListModelsHandler: handlers.NewListModelsHandler(predictor, registry.DefaultLanguage()),
	}

	srv, err := server.NewAPIServer(server.APIServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})
	if err != nil {
		logger.Fatalf("failed to build server: %v", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(srv.RunMetrics)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down server...")
	case <-gCtx.Done():
		logger.WithError(context.Cause(gCtx)).Error("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), common.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("error shutting down server")
	}
	if err := recorder.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("result log queue not fully drained")
	}
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server exited with error")
	}
	logger.Info("server gracefully stopped")
}
