package common

import "time"

const (
	DefaultLanguage = "hi"
	DefaultPort     = 10000

	InferenceTokenEnv = "HF_API_TOKEN"
	OpenAIKeyEnv      = "OPENAI_API_KEY"

	RequestIDHeader = "X-Request-ID"

	DefaultInferenceTimeout = 30 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second

	ToxicLabel    = "toxic"
	NonToxicLabel = "non-toxic"
)
