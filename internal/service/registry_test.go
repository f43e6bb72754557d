package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Capability interfaces under test.

type TimeSource interface {
	Millis() int64
}

type SceneSource interface {
	SceneName() string
}

type clockService struct {
	started  int
	stopped  int
	pre      int
	post     int
	startErr error
}

func (c *clockService) Millis() int64 { return 0 }

func (c *clockService) Startup() error { c.started++; return c.startErr }
func (c *clockService) Shutdown() error {
	c.stopped++
	return nil
}
func (c *clockService) PreUpdate()  { c.pre++ }
func (c *clockService) PostUpdate() { c.post++ }

type sceneService struct{}

func (sceneService) SceneName() string { return "main" }

// bothService implements two capability interfaces.
type bothService struct{}

func (bothService) Millis() int64     { return 0 }
func (bothService) SceneName() string { return "x" }

// plainService implements no capability interface.
type plainService struct{}

func TestDiscover_RegistersByCapability(t *testing.T) {
	r := NewRegistry()
	err := r.Discover([]Definition{
		Def[TimeSource](func() TimeSource { return &clockService{} }),
		Def[SceneSource](func() SceneSource { return sceneService{} }),
	})
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	ts, err := Get[TimeSource](r)
	require.NoError(t, err)
	assert.NotNil(t, ts)

	assert.True(t, Has[SceneSource](r))
}

func TestDiscover_ZeroCapabilitiesFails(t *testing.T) {
	r := NewRegistry()
	err := r.Discover([]Definition{{
		New: func() any { return plainService{} },
	}})
	require.ErrorIs(t, err, ErrNoCapability)
	assert.Contains(t, err.Error(), "plainService")
}

func TestDiscover_MultipleCapabilitiesFails(t *testing.T) {
	r := NewRegistry()
	err := r.Discover([]Definition{{
		New:          func() any { return bothService{} },
		Capabilities: []Key{Capability[TimeSource](), Capability[SceneSource]()},
	}})
	require.ErrorIs(t, err, ErrMultipleCapabilities)
	assert.Contains(t, err.Error(), "bothService")
	assert.Contains(t, err.Error(), "TimeSource")
	assert.Contains(t, err.Error(), "SceneSource")
}

func TestDiscover_UnimplementedCapabilityFails(t *testing.T) {
	r := NewRegistry()
	err := r.Discover([]Definition{{
		New:          func() any { return plainService{} },
		Capabilities: []Key{Capability[TimeSource]()},
	}})
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestDiscover_DuplicateCapabilityFails(t *testing.T) {
	r := NewRegistry()
	err := r.Discover([]Definition{
		Def[TimeSource](func() TimeSource { return &clockService{} }),
		Def[TimeSource](func() TimeSource { return &clockService{} }),
	})
	require.ErrorIs(t, err, ErrDuplicateCapability)
}

func TestGet_MissingIsError(t *testing.T) {
	r := NewRegistry()

	_, err := Get[TimeSource](r)
	require.ErrorIs(t, err, ErrNotFound)

	_, ok := TryGet[TimeSource](r)
	assert.False(t, ok)
	assert.False(t, Has[TimeSource](r))
}

func TestLifecycleHooks_FanOut(t *testing.T) {
	clk := &clockService{}
	r := NewRegistry()
	require.NoError(t, r.Discover([]Definition{
		Def[TimeSource](func() TimeSource { return clk }),
		Def[SceneSource](func() SceneSource { return sceneService{} }),
	}))

	require.NoError(t, r.Startup())
	r.PreUpdate()
	r.PreUpdate()
	r.PostUpdate()
	r.Shutdown()

	assert.Equal(t, 1, clk.started)
	assert.Equal(t, 2, clk.pre)
	assert.Equal(t, 1, clk.post)
	assert.Equal(t, 1, clk.stopped)
}

func TestStartup_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	failing := &clockService{startErr: boom}
	r := NewRegistry()
	require.NoError(t, r.Discover([]Definition{
		Def[TimeSource](func() TimeSource { return failing }),
	}))

	err := r.Startup()
	require.ErrorIs(t, err, boom)
}
