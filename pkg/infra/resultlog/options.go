package resultlog

import "github.com/NeuralTrust/ToxiGuard/pkg/domain/resultlog"

type SinkLocatorOption func(*SinkLocator)

// WithSink registers a sink prototype under name.
func WithSink(name string, sink resultlog.Sink) SinkLocatorOption {
	return func(sl *SinkLocator) {
		if sl.sinks == nil {
			sl.sinks = make(map[string]resultlog.Sink)
		}
		sl.sinks[name] = sink
	}
}
