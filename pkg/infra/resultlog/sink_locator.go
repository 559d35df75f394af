package resultlog

import (
	"fmt"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	"github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"
)

type SinkLocator struct {
	sinks map[string]resultlog.Sink
}

func NewSinkLocator(opts ...SinkLocatorOption) *SinkLocator {
	sl := &SinkLocator{
		sinks: make(map[string]resultlog.Sink),
	}
	for _, opt := range opts {
		opt(sl)
	}
	return sl
}

func (l *SinkLocator) GetSink(cfg config.SinkConfig) (resultlog.Sink, error) {
	base, ok := l.sinks[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("unknown result sink: %s", cfg.Name)
	}
	if err := base.ValidateConfig(cfg.Settings); err != nil {
		return nil, fmt.Errorf("result sink %s: %w", cfg.Name, err)
	}
	sink, err := base.WithSettings(cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("result sink %s: %w", cfg.Name, err)
	}
	return sink, nil
}

// BuildSinks resolves every configured sink. Sinks built before a failure are closed.
func (l *SinkLocator) BuildSinks(cfgs []config.SinkConfig) ([]resultlog.Sink, error) {
	sinks := make([]resultlog.Sink, 0, len(cfgs))
	for _, cfg := range cfgs {
		sink, err := l.GetSink(cfg)
		if err != nil {
			for _, built := range sinks {
				built.Close()
			}
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}
