package logsink

import "log/slog"

type slogSink struct {
	l *slog.Logger
}

// Slog wraps an slog.Logger as a Sink.
func Slog(l *slog.Logger) Sink {
	return slogSink{l: l}
}

func (s slogSink) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogSink) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogSink) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s slogSink) Exception(err error, msg string, args ...any) {
	s.l.Error(msg, append(args, "err", err)...)
}
