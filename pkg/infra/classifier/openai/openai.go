package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/NeuralTrust/ToxiGuard/pkg/common"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/mitchellh/mapstructure"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	BackendName  = "openai"
	ProviderName = "OpenAI API"

	DefaultModel = "omni-moderation-latest"
)

type Settings struct {
	APIKey    string `mapstructure:"api_key"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
}

func DecodeSettings(settings map[string]interface{}) (Settings, error) {
	var s Settings
	if err := mapstructure.Decode(settings, &s); err != nil {
		return s, fmt.Errorf("invalid openai model settings: %w", err)
	}
	if s.APIKeyEnv == "" {
		s.APIKeyEnv = common.OpenAIKeyEnv
	}
	if s.APIKey == "" {
		s.APIKey = os.Getenv(s.APIKeyEnv)
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return s, fmt.Errorf("openai api key is required (settings.api_key or %s)", s.APIKeyEnv)
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	return s, nil
}

// Classifier scores text with the moderation endpoint. The score is the highest category
// score and the label is toxic when the input is flagged.
type Classifier struct {
	client openai.Client
	model  string
	logger *logrus.Logger
}

func NewClassifier(logger *logrus.Logger, settings map[string]interface{}) (toxicity.Classifier, error) {
	s, err := DecodeSettings(settings)
	if err != nil {
		return nil, err
	}
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &Classifier{
		client: openai.NewClient(opts...),
		model:  s.Model,
		logger: logger,
	}, nil
}

func (c *Classifier) Backend() string {
	return BackendName
}

func (c *Classifier) Classify(ctx context.Context, text string) (toxicity.Prediction, error) {
	resp, err := c.client.Moderations.New(ctx, openai.ModerationNewParams{
		Input: openai.ModerationNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.ModerationModel(c.model),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			c.logger.WithField("status_code", apiErr.StatusCode).Warn("openai moderation returned an error")
			return toxicity.Prediction{}, toxicity.NewUpstreamError(ProviderName, apiErr.StatusCode, apiErr.RawJSON())
		}
		return toxicity.Prediction{}, fmt.Errorf("openai moderation request failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return toxicity.Prediction{}, errors.New("openai moderation returned no results")
	}

	result := resp.Results[0]
	score, err := maxCategoryScore(result.CategoryScores.RawJSON())
	if err != nil {
		return toxicity.Prediction{}, err
	}
	label := common.NonToxicLabel
	if result.Flagged {
		label = common.ToxicLabel
	}
	return toxicity.Prediction{Score: score, Label: label}, nil
}

func maxCategoryScore(raw string) (float64, error) {
	var p fastjson.Parser
	v, err := p.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid category scores: %w", err)
	}
	obj, err := v.Object()
	if err != nil {
		return 0, fmt.Errorf("invalid category scores: %w", err)
	}
	var best float64
	obj.Visit(func(_ []byte, score *fastjson.Value) {
		if f, err := score.Float64(); err == nil && f > best {
			best = f
		}
	})
	return best, nil
}
