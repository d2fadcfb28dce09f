package rxnorm

import "log/slog"

// CallEvent records metadata about a single RxNav request.
type CallEvent struct {
	Op        string
	Path      string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about RxNav calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"op", event.Op,
		"path", event.Path,
		"latency_ms", event.LatencyMs,
	}
	if event.Success {
		o.logger.Info("rxnav_call", append(attrs, "status", "ok")...)
		return
	}
	o.logger.Warn("rxnav_call", append(attrs, "status", "err:"+event.ErrorCode)...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
