package toxicity

import (
	"fmt"
	"sort"
	"strings"
)

type ModelInfo struct {
	Lang    string `json:"lang"`
	Backend string `json:"backend"`
	Default bool   `json:"default"`
}

// Registry maps language codes to classifiers. It is built once at startup and only read
// afterwards, so it needs no locking.
type Registry struct {
	classifiers     map[string]Classifier
	defaultLanguage string
}

func NewRegistry(defaultLanguage string, classifiers map[string]Classifier) (*Registry, error) {
	if defaultLanguage == "" {
		return nil, fmt.Errorf("default language is required")
	}
	copied := make(map[string]Classifier, len(classifiers))
	for lang, c := range classifiers {
		if c == nil {
			return nil, fmt.Errorf("nil classifier for language %q", lang)
		}
		copied[normalize(lang)] = c
	}
	return &Registry{
		classifiers:     copied,
		defaultLanguage: normalize(defaultLanguage),
	}, nil
}

// Resolve returns the normalized language code and its classifier, falling back to the
// default language when lang is empty or blank.
func (r *Registry) Resolve(lang string) (string, Classifier, error) {
	code := normalize(lang)
	if code == "" {
		code = r.defaultLanguage
	}
	c, ok := r.classifiers[code]
	if !ok {
		return code, nil, NewUnsupportedLanguageError(code)
	}
	return code, c, nil
}

func (r *Registry) DefaultLanguage() string {
	return r.defaultLanguage
}

func (r *Registry) Models() []ModelInfo {
	models := make([]ModelInfo, 0, len(r.classifiers))
	for lang, c := range r.classifiers {
		models = append(models, ModelInfo{
			Lang:    lang,
			Backend: c.Backend(),
			Default: lang == r.defaultLanguage,
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Lang < models[j].Lang })
	return models
}

func normalize(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
