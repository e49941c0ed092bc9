package log

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

const maxFieldLen = 64

var rootLogger = logrus.NewEntry(newLogger())

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return l
}

// L returns the logger scoped to ctx, or the root logger when ctx carries
// no fields.
func L(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return rootLogger
}

// WithLogField returns a context whose logger carries key=value on every
// line. Values are truncated so a misread serial line cannot blow up the
// log output.
func WithLogField(ctx context.Context, key, value string) context.Context {
	if len(value) > maxFieldLen {
		value = value[:maxFieldLen-3] + "..."
	}
	return context.WithValue(ctx, ctxKey{}, L(ctx).WithField(key, value))
}

// SetLevel sets the process-wide log level. Unknown strings fall back to
// info rather than failing startup.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
		rootLogger.Logger.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
		rootLogger.Logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		logrus.SetLevel(logrus.WarnLevel)
		rootLogger.Logger.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
		rootLogger.Logger.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
		rootLogger.Logger.SetLevel(logrus.InfoLevel)
	}
}
