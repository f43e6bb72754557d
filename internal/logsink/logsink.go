// Package logsink provides the kernel's pluggable logging sink.
// The default sink writes through log/slog; hosts may swap in their
// own backend at any time and revert by setting nil.
package logsink

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// Sink receives kernel log output.
type Sink interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// Exception reports an error value alongside a message. Used for
	// observer faults and release failures.
	Exception(err error, msg string, args ...any)
}

type holder struct{ sink Sink }

var current atomic.Pointer[holder]

var fallback = Slog(slog.New(slog.NewTextHandler(os.Stderr, nil)))

// Set replaces the current sink. Passing nil reverts to the default
// console sink.
func Set(s Sink) {
	if s == nil {
		current.Store(nil)
		return
	}
	current.Store(&holder{sink: s})
}

// L returns the current sink.
func L() Sink {
	if h := current.Load(); h != nil {
		return h.sink
	}
	return fallback
}
