package logsink

import (
	"fmt"

	"github.com/rs/zerolog"
)

type zerologSink struct {
	l zerolog.Logger
}

// Zerolog wraps a zerolog.Logger as a Sink for hosts already running
// on zerolog.
func Zerolog(l zerolog.Logger) Sink {
	return zerologSink{l: l}
}

func (z zerologSink) Info(msg string, args ...any)  { emit(z.l.Info(), msg, args) }
func (z zerologSink) Warn(msg string, args ...any)  { emit(z.l.Warn(), msg, args) }
func (z zerologSink) Error(msg string, args ...any) { emit(z.l.Error(), msg, args) }

func (z zerologSink) Exception(err error, msg string, args ...any) {
	emit(z.l.Error().Err(err), msg, args)
}

// emit maps slog-style key/value pairs onto a zerolog event. A
// trailing key without a value is logged under "arg".
func emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		ev = ev.Interface(fmt.Sprint(args[i]), args[i+1])
	}
	if len(args)%2 != 0 {
		ev = ev.Interface("arg", args[len(args)-1])
	}
	ev.Msg(msg)
}
