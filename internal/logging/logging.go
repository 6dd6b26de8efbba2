package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xvzc/macswitch/internal/session"
)

const (
	// scopeFieldName defines the key for the "scope" field in structured logs.
	scopeFieldName   = "scope"
	episodeFieldName = "episode"
	ifaceFieldName   = "iface"
)

// NewLogger creates a console logger at the given level.
// The returned instance is passed to components explicitly; use WithScope to
// derive a per-component logger from it.
func NewLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		// FormatPrepare intercepts fields just before printing
		// to render [SCOPE] and the (episode) id as fixed columns.
		FormatPrepare: func(m map[string]any) error {
			if v, ok := m[episodeFieldName].(string); ok && v != "" {
				m[episodeFieldName] = fmt.Sprintf("(%s)", v)
			} else {
				// Keep the column empty rather than letting zerolog print <nil>.
				m[episodeFieldName] = ""
			}

			if v, ok := m[scopeFieldName].(string); ok && v != "" {
				m[scopeFieldName] = fmt.Sprintf("[%s]", v)
			} else {
				m[scopeFieldName] = "[app]"
			}

			if v, ok := m[ifaceFieldName].(string); ok && v != "" {
				m[ifaceFieldName] = fmt.Sprintf("%s;", v)
			} else {
				m[ifaceFieldName] = ""
			}

			return nil
		},
		// Exclude the raw field names since we have already formatted them
		// in FormatPrepare.
		FieldsExclude: []string{episodeFieldName, scopeFieldName, ifaceFieldName},
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			episodeFieldName,
			scopeFieldName,
			ifaceFieldName,
			zerolog.MessageFieldName,
		},
	}

	return zerolog.New(consoleWriter).
		Hook(ctxHook{}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetGlobalLogger installs a stdout logger as the zerolog global logger and
// returns it.
func SetGlobalLogger(level zerolog.Level) zerolog.Logger {
	zerolog.SetGlobalLevel(level)
	log.Logger = NewLogger(os.Stdout, level)

	return log.Logger
}

// WithScope is a helper for components (like the prober or the watchdog)
// to create a sub-logger with their component name.
func WithScope(logger zerolog.Logger, scope string) zerolog.Logger {
	return logger.With().Str(scopeFieldName, scope).Logger()
}

// ctxHook implements the zerolog.Hook interface.
// It only fires with a context when .Ctx(ctx) was added to the event chain.
type ctxHook struct{}

func (h ctxHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	if id, ok := session.EpisodeIDFrom(ctx); ok {
		e.Str(episodeFieldName, id)
	}

	if name, ok := session.InterfaceFrom(ctx); ok {
		e.Str(ifaceFieldName, name)
	}
}

type joinableError interface {
	Unwrap() []error
}

// ErrorUnwrapped tries to unwrap an error and prints each error separately.
// If the error is not joined, it logs the single error normally.
func ErrorUnwrapped(logger *zerolog.Logger, msg string, err error) {
	logUnwrapped(logger, zerolog.ErrorLevel, msg, err)
}

func WarnUnwrapped(logger *zerolog.Logger, msg string, err error) {
	logUnwrapped(logger, zerolog.WarnLevel, msg, err)
}

func logUnwrapped(logger *zerolog.Logger, level zerolog.Level, msg string, err error) {
	var joinedErrs joinableError

	if errors.As(err, &joinedErrs) {
		for _, e := range joinedErrs.Unwrap() {
			logger.WithLevel(level).Err(e).Msg(msg)
		}

		return
	}

	logger.WithLevel(level).Err(err).Msg(msg)
}
