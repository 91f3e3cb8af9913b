package otel

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// logrusHook forwards logrus entries to an OTel logger so application logs
// reach the collector alongside traces and metrics.
type logrusHook struct {
	logger otellog.Logger
}

// NewLogrusHook returns a logrus hook that emits each entry as an OTel log
// record via the given LoggerProvider. A nil provider yields a no-op hook.
func NewLogrusHook(provider *sdklog.LoggerProvider) logrus.Hook {
	if provider == nil {
		return noopHook{}
	}
	return &logrusHook{logger: provider.Logger("collab-canvas.server")}
}

type noopHook struct{}

func (noopHook) Levels() []logrus.Level   { return nil }
func (noopHook) Fire(*logrus.Entry) error { return nil }

func (h *logrusHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

// Fire converts the entry to an OTel log record and emits it. Best-effort;
// export failures are handled by the batch processor.
func (h *logrusHook) Fire(entry *logrus.Entry) error {
	rec := otellog.Record{}
	rec.SetTimestamp(entry.Time)
	rec.SetBody(otellog.StringValue(entry.Message))
	rec.SetSeverity(mapSeverity(entry.Level))
	rec.SetSeverityText(entry.Level.String())
	for k, v := range entry.Data {
		rec.AddAttributes(otellog.String(k, fmt.Sprint(v)))
	}
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}
	h.logger.Emit(ctx, rec)
	return nil
}

func mapSeverity(level logrus.Level) otellog.Severity {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return otellog.SeverityFatal
	case logrus.ErrorLevel:
		return otellog.SeverityError
	case logrus.WarnLevel:
		return otellog.SeverityWarn
	case logrus.InfoLevel:
		return otellog.SeverityInfo
	default:
		return otellog.SeverityDebug
	}
}
