package resultlog

import (
	"context"
)

// Entry is the record shipped to result sinks after every successful prediction.
type Entry struct {
	Text     string  `json:"text"`
	Lang     string  `json:"lang"`
	Toxicity float64 `json:"toxicity"`
	IsToxic  bool    `json:"is_toxic"`
}

type Status string

const (
	StatusDelivered Status = "delivered"
	StatusQueued    Status = "queued"
	StatusFailed    Status = "failed"
	StatusDisabled  Status = "disabled"
)

// Outcome reports what happened to an entry. A failed outcome never changes the
// prediction returned to the caller.
type Outcome struct {
	Status Status
	Err    error
}

func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

type Sink interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Sink, error)
	Send(ctx context.Context, entry Entry) error
	Close()
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) Outcome
	Shutdown(ctx context.Context) error
}
