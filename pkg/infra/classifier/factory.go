package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/classifier/local"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/classifier/openai"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/classifier/remote"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type ClassifiersDI struct {
	Logger *logrus.Logger
	Client httpx.Client
	// LocalLoader overrides how local pipelines are loaded; nil uses the default loader.
	LocalLoader local.PipelineLoader
}

// NewClassifier builds the backend configured for one language.
func NewClassifier(
	lang string,
	model config.ModelConfig,
	inference config.InferenceConfig,
	di ClassifiersDI,
) (toxicity.Classifier, error) {
	switch model.Backend {
	case config.BackendRemote:
		client := di.Client
		if inference.Breaker.Enabled {
			client = httpx.NewBreakerClient(client, httpx.NewCircuitBreaker(
				"inference-"+lang,
				inference.Breaker.Timeout,
				inference.Breaker.MaxFailures,
			))
		}
		return remote.NewClassifier(di.Logger, client, model.Settings, inference.Token)
	case config.BackendLocal:
		if di.LocalLoader != nil {
			return local.NewClassifierWithLoader(di.Logger, model.Settings, inference.Token, di.LocalLoader)
		}
		return local.NewClassifier(di.Logger, model.Settings, inference.Token)
	case config.BackendOpenAI:
		return openai.NewClassifier(di.Logger, model.Settings)
	default:
		return nil, fmt.Errorf("unknown classifier backend: %s", model.Backend)
	}
}

// BuildRegistry constructs every configured classifier concurrently. Any failure aborts
// the whole build.
func BuildRegistry(ctx context.Context, cfg *config.Config, di ClassifiersDI) (*toxicity.Registry, error) {
	var (
		mu          sync.Mutex
		classifiers = make(map[string]toxicity.Classifier, len(cfg.Models))
	)

	g, ctx := errgroup.WithContext(ctx)
	for lang, model := range cfg.Models {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := NewClassifier(lang, model, cfg.Inference, di)
			if err != nil {
				return fmt.Errorf("model for language %s: %w", lang, err)
			}
			mu.Lock()
			classifiers[lang] = c
			mu.Unlock()
			di.Logger.WithFields(logrus.Fields{
				"lang":    lang,
				"backend": c.Backend(),
			}).Info("classifier ready")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return toxicity.NewRegistry(cfg.Inference.DefaultLanguage, classifiers)
}
