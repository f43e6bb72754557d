package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DualIndexConsistency(t *testing.T) {
	rt := newTestRuntime(ReadySelfOnly)
	p, err := rt.Spawn(&fakeNative{id: 42}, true)
	require.NoError(t, err)

	byID, ok := rt.Objects.ByID(p.ID())
	require.True(t, ok)
	assert.Same(t, p, byID)

	byNative, ok := rt.Objects.ByNativeID(42)
	require.True(t, ok)
	assert.Same(t, p, byNative)

	require.True(t, rt.Objects.Unregister(p))

	_, ok = rt.Objects.ByID(p.ID())
	assert.False(t, ok)
	_, ok = rt.Objects.ByNativeID(42)
	assert.False(t, ok)
}

func TestRegistry_DuplicateIDRejected(t *testing.T) {
	rt := newTestRuntime(ReadySelfOnly)
	p := rt.NewProxy(&fakeNative{id: 1})
	require.NoError(t, rt.Objects.Register(p))

	err := rt.Objects.Register(p)
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestRegistry_UnregisterMissing(t *testing.T) {
	rt := newTestRuntime(ReadySelfOnly)
	p := rt.NewProxy(&fakeNative{id: 1})

	assert.False(t, rt.Objects.Unregister(p))
	assert.False(t, rt.Objects.UnregisterID(p.ID()))
}

func TestRegistry_RecycledNativeHandle(t *testing.T) {
	// The host may reuse a native handle after destruction. The stale
	// proxy's unregistration must not knock out the newer mapping.
	rt := newTestRuntime(ReadySelfOnly)

	old, err := rt.Spawn(&fakeNative{id: 7}, true)
	require.NoError(t, err)

	fresh := rt.NewProxy(&fakeNative{id: 7})
	require.NoError(t, rt.Objects.Register(fresh))

	rt.Objects.Unregister(old)

	got, ok := rt.Objects.ByNativeID(7)
	require.True(t, ok)
	assert.Same(t, fresh, got)
}

func TestRegistry_AllAndSnapshot(t *testing.T) {
	rt := newTestRuntime(ReadySelfOnly)
	for i := NativeID(1); i <= 5; i++ {
		_, err := rt.Spawn(&fakeNative{id: i}, true)
		require.NoError(t, err)
	}

	seen := 0
	for range rt.Objects.All() {
		seen++
	}
	assert.Equal(t, 5, seen)

	// Destroy while iterating the snapshot: registry mutation during
	// iteration must be safe over a copy.
	for _, p := range rt.Objects.Snapshot() {
		p.Destroy()
	}
	assert.Equal(t, 0, rt.Objects.Len())
}
