package prediction

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Predictor --dir=. --output=./mocks --filename=predictor_mock.go --case=underscore
type Predictor interface {
	Predict(ctx context.Context, req toxicity.Request) (toxicity.Result, error)
	Models() []toxicity.ModelInfo
}

type predictor struct {
	logger   *logrus.Logger
	registry *toxicity.Registry
	recorder resultlog.Recorder
}

func NewPredictor(
	logger *logrus.Logger,
	registry *toxicity.Registry,
	recorder resultlog.Recorder,
) Predictor {
	return &predictor{
		logger:   logger,
		registry: registry,
		recorder: recorder,
	}
}

// Predict validates req, classifies it with the model registered for its language and
// records the result. Recording never changes the returned result.
func (p *predictor) Predict(ctx context.Context, req toxicity.Request) (toxicity.Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return toxicity.Result{}, toxicity.ErrEmptyText
	}

	lang, classifier, err := p.registry.Resolve(req.Lang)
	if err != nil {
		return toxicity.Result{}, err
	}

	start := time.Now()
	prediction, err := classifier.Classify(ctx, text)
	if prometheus.Config.EnableLatency {
		prometheus.PredictionLatency.
			WithLabelValues(lang, classifier.Backend()).
			Observe(float64(time.Since(start).Milliseconds()))
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"lang":    lang,
				"backend": classifier.Backend(),
			}).Warn("classification failed")
		}
		return toxicity.Result{}, err
	}

	result := toxicity.NewResult(prediction)
	prometheus.PredictionsTotal.WithLabelValues(lang, strconv.FormatBool(result.IsToxic)).Inc()

	outcome := p.recorder.Record(ctx, resultlog.Entry{
		Text:     text,
		Lang:     lang,
		Toxicity: result.Toxicity,
		IsToxic:  result.IsToxic,
	})
	if outcome.Failed() {
		p.logger.WithError(outcome.Err).WithField("lang", lang).Debug("prediction result not recorded")
	}

	return result, nil
}

func (p *predictor) Models() []toxicity.ModelInfo {
	return p.registry.Models()
}
