package logsink

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetAndReset(t *testing.T) {
	defer Set(nil)

	var buf bytes.Buffer
	Set(Slog(slog.New(slog.NewTextHandler(&buf, nil))))

	L().Warn("queue depth high", "depth", 42)
	assert.Contains(t, buf.String(), "queue depth high")
	assert.Contains(t, buf.String(), "depth=42")

	// Unset reverts to the default console sink.
	Set(nil)
	assert.NotNil(t, L())
}

func TestSlogSink_Exception(t *testing.T) {
	var buf bytes.Buffer
	s := Slog(slog.New(slog.NewTextHandler(&buf, nil)))

	s.Exception(errors.New("release failed"), "native release", "objectID", 7)

	out := buf.String()
	assert.Contains(t, out, "native release")
	assert.Contains(t, out, "release failed")
	assert.Contains(t, out, "objectID=7")
}

func TestZerologSink(t *testing.T) {
	var buf bytes.Buffer
	s := Zerolog(zerolog.New(&buf))

	s.Info("frame begins", "frame", 12)
	s.Exception(errors.New("boom"), "observer fault", "observer", "spawner")

	out := buf.String()
	assert.Contains(t, out, `"frame begins"`)
	assert.Contains(t, out, `"frame":12`)
	assert.Contains(t, out, `"boom"`)
	assert.Contains(t, out, `"observer":"spawner"`)
}

func TestZerologSink_OddArgs(t *testing.T) {
	var buf bytes.Buffer
	s := Zerolog(zerolog.New(&buf))

	s.Warn("dangling", "key")
	assert.True(t, strings.Contains(buf.String(), `"arg":"key"`))
}
