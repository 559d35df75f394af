package toxicity_test

import (
	"errors"
	"testing"

	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/toxicity/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*toxicity.Registry, *mocks.Classifier, *mocks.Classifier) {
	t.Helper()
	hi := new(mocks.Classifier)
	hi.On("Backend").Return("remote").Maybe()
	te := new(mocks.Classifier)
	te.On("Backend").Return("local").Maybe()
	r, err := toxicity.NewRegistry("hi", map[string]toxicity.Classifier{"hi": hi, "TE": te})
	require.NoError(t, err)
	return r, hi, te
}

func TestRegistry_Resolve(t *testing.T) {
	r, hi, te := newRegistry(t)

	lang, c, err := r.Resolve("hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", lang)
	assert.Same(t, hi, c)

	lang, c, err = r.Resolve(" Te ")
	require.NoError(t, err)
	assert.Equal(t, "te", lang)
	assert.Same(t, te, c)
}

func TestRegistry_ResolveDefaultsWhenEmpty(t *testing.T) {
	r, hi, _ := newRegistry(t)

	for _, in := range []string{"", "  ", "\t"} {
		lang, c, err := r.Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, "hi", lang)
		assert.Same(t, hi, c)
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r, _, _ := newRegistry(t)

	_, c, err := r.Resolve("fr")
	assert.Nil(t, c)
	require.Error(t, err)

	var unsupported *toxicity.UnsupportedLanguageError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "fr", unsupported.Lang)
	assert.Equal(t, "model for language 'fr' not found", err.Error())
}

func TestRegistry_ResolveUnknownReportsNormalizedCode(t *testing.T) {
	r, _, _ := newRegistry(t)

	lang, _, err := r.Resolve(" FR ")
	require.Error(t, err)
	assert.Equal(t, "fr", lang)

	var unsupported *toxicity.UnsupportedLanguageError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "fr", unsupported.Lang)
	assert.Equal(t, "model for language 'fr' not found", err.Error())
}

func TestRegistry_Models(t *testing.T) {
	r, _, _ := newRegistry(t)

	assert.Equal(t, []toxicity.ModelInfo{
		{Lang: "hi", Backend: "remote", Default: true},
		{Lang: "te", Backend: "local", Default: false},
	}, r.Models())
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := toxicity.NewRegistry("", nil)
	assert.Error(t, err)

	_, err = toxicity.NewRegistry("hi", map[string]toxicity.Classifier{"hi": nil})
	assert.Error(t, err)
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name string
		in   toxicity.Prediction
		want toxicity.Result
	}{
		{"toxic", toxicity.Prediction{Score: 0.87, Label: "toxic"}, toxicity.Result{Toxicity: 87, IsToxic: true}},
		{"upper case label", toxicity.Prediction{Score: 0.5, Label: "TOXIC"}, toxicity.Result{Toxicity: 50, IsToxic: true}},
		{"non toxic", toxicity.Prediction{Score: 0.99, Label: "non-toxic"}, toxicity.Result{Toxicity: 99, IsToxic: false}},
		{"zero", toxicity.Prediction{Score: 0, Label: "LABEL_0"}, toxicity.Result{Toxicity: 0, IsToxic: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toxicity.NewResult(tt.in)
			assert.InDelta(t, tt.want.Toxicity, got.Toxicity, 1e-9)
			assert.Equal(t, tt.want.IsToxic, got.IsToxic)
		})
	}
}
