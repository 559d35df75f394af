package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/classifier/remote"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/httpx"
	"github.com/NeuralTrust/ToxiGuard/pkg/infra/httpx/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClassifier(t *testing.T) {
	logger := logrus.New()

	t.Run("Missing url", func(t *testing.T) {
		_, err := remote.NewClassifier(logger, nil, map[string]interface{}{}, "hf_token")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "url is required")
	})

	t.Run("Valid settings", func(t *testing.T) {
		c, err := remote.NewClassifier(logger, nil, map[string]interface{}{"url": "http://localhost"}, "")
		require.NoError(t, err)
		assert.Equal(t, remote.BackendName, c.Backend())
	})
}

func TestClassifier_Classify(t *testing.T) {
	logger := logrus.New()

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/models/LingoIITGN/mBERT_toxic_hindi", r.URL.Path)
			assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			assert.Equal(t, "tum bahut bure ho", body["inputs"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"label":"toxic","score":0.87}]`))
		}))
		defer server.Close()

		c, err := remote.NewClassifier(
			logger,
			httpx.NewFastHTTPClient(),
			map[string]interface{}{"url": server.URL + "/models/LingoIITGN/mBERT_toxic_hindi"},
			"hf_test",
		)
		require.NoError(t, err)

		pred, err := c.Classify(context.Background(), "tum bahut bure ho")
		require.NoError(t, err)
		assert.Equal(t, "toxic", pred.Label)
		assert.InDelta(t, 0.87, pred.Score, 1e-9)
	})

	t.Run("Model token overrides default", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer model_token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[{"label":"non-toxic","score":0.6}]`))
		}))
		defer server.Close()

		c, err := remote.NewClassifier(
			logger,
			&http.Client{},
			map[string]interface{}{"url": server.URL, "token": "model_token"},
			"hf_test",
		)
		require.NoError(t, err)

		_, err = c.Classify(context.Background(), "hello")
		require.NoError(t, err)
	})

	t.Run("Non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
		}))
		defer server.Close()

		c, err := remote.NewClassifier(logger, &http.Client{}, map[string]interface{}{"url": server.URL}, "hf_test")
		require.NoError(t, err)

		_, err = c.Classify(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, `error from Hugging Face API: {"error":"Model is currently loading"}`, err.Error())

		var upstream *toxicity.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	})

	t.Run("Transport error", func(t *testing.T) {
		client := new(mocks.MockHTTPClient)
		client.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

		c, err := remote.NewClassifier(logger, client, map[string]interface{}{"url": "http://inference.local"}, "")
		require.NoError(t, err)

		_, err = c.Classify(context.Background(), "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("No token omits authorization header", func(t *testing.T) {
		client := new(mocks.MockHTTPClient)
		client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
			return r.Header.Get("Authorization") == ""
		})).Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`[{"label":"toxic","score":0.5}]`)),
		}, nil)

		c, err := remote.NewClassifier(logger, client, map[string]interface{}{"url": "http://inference.local"}, "")
		require.NoError(t, err)

		pred, err := c.Classify(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, "toxic", pred.Label)
		client.AssertExpectations(t)
	})
}

func TestParsePrediction(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantLabel string
		wantScore float64
		wantErr   bool
	}{
		{name: "flat", body: `[{"label":"toxic","score":0.87}]`, wantLabel: "toxic", wantScore: 0.87},
		{name: "flat uses first element", body: `[{"label":"non-toxic","score":0.4},{"label":"toxic","score":0.6}]`, wantLabel: "non-toxic", wantScore: 0.4},
		{name: "nested picks top score", body: `[[{"label":"non-toxic","score":0.1},{"label":"toxic","score":0.9}]]`, wantLabel: "toxic", wantScore: 0.9},
		{name: "empty list", body: `[]`, wantErr: true},
		{name: "empty nested list", body: `[[]]`, wantErr: true},
		{name: "object instead of list", body: `{"error":"bad"}`, wantErr: true},
		{name: "missing score", body: `[{"label":"toxic"}]`, wantErr: true},
		{name: "not json", body: `oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := remote.ParsePrediction([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, pred.Label)
			assert.InDelta(t, tt.wantScore, pred.Score, 1e-9)
		})
	}
}
