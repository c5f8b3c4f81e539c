package logging

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog.Logger to Logger. Key–value args are added as
// fields; a dangling key gets the value "!MISSING".
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// NewJSONZerologLogger builds a JSON zerolog logger with timestamps. When
// pretty is set, output goes through zerolog.ConsoleWriter instead.
func NewJSONZerologLogger(w io.Writer, level Level, pretty bool) *ZerologLogger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger()
	return NewZerologLogger(l)
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Zerolog exposes the underlying logger for integrations that need it directly.
func (z *ZerologLogger) Zerolog() zerolog.Logger { return z.l }

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Debug().Ctx(ctx), msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Info().Ctx(ctx), msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Warn().Ctx(ctx), msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.emit(z.l.Error().Ctx(ctx), msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(fields(args)).Logger()}
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, args []any) {
	e.Fields(fields(args)).Msg(msg)
}

func fields(args []any) map[string]any {
	m := make(map[string]any, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			m[key] = "!MISSING"
			break
		}
		v := args[i+1]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		m[key] = v
	}
	return m
}
