package local

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/mitchellh/mapstructure"
	"github.com/nlpodyssey/cybertron/pkg/tasks"
	"github.com/nlpodyssey/cybertron/pkg/tasks/textclassification"
	"github.com/sirupsen/logrus"
)

const (
	BackendName      = "local"
	DefaultModelsDir = "./models"

	DownloadMissing = "missing"
	DownloadNever   = "never"
	DownloadAlways  = "always"
)

var ErrNoLabels = errors.New("text classification returned no labels")

// PipelineLoader builds a text classification pipeline from a model directory.
type PipelineLoader func(cfg *tasks.Config) (textclassification.Interface, error)

func defaultPipelineLoader(cfg *tasks.Config) (textclassification.Interface, error) {
	return tasks.Load[textclassification.Interface](cfg)
}

type Settings struct {
	Model     string `mapstructure:"model"`
	ModelsDir string `mapstructure:"models_dir"`
	Device    string `mapstructure:"device"`
	Download  string `mapstructure:"download"`
	HubToken  string `mapstructure:"hub_token"`
}

func DecodeSettings(settings map[string]interface{}) (Settings, error) {
	var s Settings
	if err := mapstructure.Decode(settings, &s); err != nil {
		return s, fmt.Errorf("invalid local model settings: %w", err)
	}
	if strings.TrimSpace(s.Model) == "" {
		return s, errors.New("local model name is required")
	}
	if s.ModelsDir == "" {
		s.ModelsDir = DefaultModelsDir
	}
	if s.Device == "" {
		s.Device = DeviceAuto
	}
	if s.Download == "" {
		s.Download = DownloadMissing
	}
	return s, nil
}

func downloadPolicy(download string) (tasks.DownloadPolicy, error) {
	switch strings.ToLower(download) {
	case DownloadMissing:
		return tasks.DownloadMissing, nil
	case DownloadNever:
		return tasks.DownloadNever, nil
	case DownloadAlways:
		return tasks.DownloadAlways, nil
	default:
		return tasks.DownloadNever, fmt.Errorf("unsupported download policy %q", download)
	}
}

type Classifier struct {
	pipeline textclassification.Interface
	model    string
	device   string
}

// NewClassifier loads a Hugging Face sequence classification model from
// <models_dir>/<model>, fetching it from the hub first when the download policy allows.
// hubToken is used when the settings carry no token of their own.
func NewClassifier(logger *logrus.Logger, settings map[string]interface{}, hubToken string) (toxicity.Classifier, error) {
	return NewClassifierWithLoader(logger, settings, hubToken, defaultPipelineLoader)
}

func NewClassifierWithLoader(
	logger *logrus.Logger,
	settings map[string]interface{},
	hubToken string,
	loader PipelineLoader,
) (toxicity.Classifier, error) {
	s, err := DecodeSettings(settings)
	if err != nil {
		return nil, err
	}
	device, err := ResolveDevice(logger, s.Device)
	if err != nil {
		return nil, err
	}
	policy, err := downloadPolicy(s.Download)
	if err != nil {
		return nil, err
	}
	if s.HubToken == "" {
		s.HubToken = hubToken
	}

	cfg := &tasks.Config{
		ModelsDir:           s.ModelsDir,
		ModelName:           s.Model,
		HubAccessToken:      s.HubToken,
		DownloadPolicy:      policy,
		ConversionPolicy:    tasks.ConvertMissing,
		ConversionPrecision: tasks.F32,
	}
	dir := filepath.Join(s.ModelsDir, s.Model)
	if policy == tasks.DownloadNever {
		if err := CheckModelDir(dir); err != nil {
			return nil, fmt.Errorf("failed to load local model %s: %w", s.Model, err)
		}
	}

	if loader == nil {
		loader = defaultPipelineLoader
	}
	pipeline, err := loader(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load local model %s: %w", s.Model, err)
	}

	logger.WithFields(logrus.Fields{
		"model":  s.Model,
		"dir":    dir,
		"device": device,
	}).Info("local model loaded")

	return &Classifier{pipeline: pipeline, model: s.Model, device: device}, nil
}

func (c *Classifier) Backend() string {
	return BackendName
}

func (c *Classifier) Device() string {
	return c.device
}

// Classify runs the pipeline and returns the top label with its probability.
func (c *Classifier) Classify(ctx context.Context, text string) (toxicity.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return toxicity.Prediction{}, err
	}
	resp, err := c.pipeline.Classify(ctx, text)
	if err != nil {
		return toxicity.Prediction{}, fmt.Errorf("local model %s: %w", c.model, err)
	}
	if len(resp.Labels) == 0 || len(resp.Labels) != len(resp.Scores) {
		return toxicity.Prediction{}, ErrNoLabels
	}
	best := 0
	for i := range resp.Scores {
		if resp.Scores[i] > resp.Scores[best] {
			best = i
		}
	}
	return toxicity.Prediction{Score: resp.Scores[best], Label: resp.Labels[best]}, nil
}
