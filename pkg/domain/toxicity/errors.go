package toxicity

import (
	"errors"
	"fmt"
)

var ErrEmptyText = errors.New("no text provided")

type UnsupportedLanguageError struct {
	Lang string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("model for language '%s' not found", e.Lang)
}

func NewUnsupportedLanguageError(lang string) error {
	return &UnsupportedLanguageError{Lang: lang}
}

// UpstreamError carries a non-success answer from an inference provider verbatim.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("error from %s: %s", e.Provider, e.Body)
}

func NewUpstreamError(provider string, statusCode int, body string) error {
	return &UpstreamError{
		Provider:   provider,
		StatusCode: statusCode,
		Body:       body,
	}
}
