package object

// Runtime bundles the registry and lifecycle manager a proxy reports
// to. The engine owns one Runtime; host bridge code constructs proxies
// through it.
type Runtime struct {
	Objects   *Registry
	Lifecycle *Lifecycle

	ids *IDGenerator
}

// NewRuntime wires a fresh registry and lifecycle manager.
func NewRuntime(policy ReadyPolicy) *Runtime {
	return &Runtime{
		Objects:   NewRegistry(),
		Lifecycle: NewLifecycle(policy),
		ids:       globalIDs,
	}
}

// NewProxy wraps a native entity. The proxy is not registered until
// Initialize is called.
func (rt *Runtime) NewProxy(native Native, opts ...Option) *Proxy {
	p := &Proxy{
		id:     rt.ids.Next(),
		native: native,
		rt:     rt,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Spawn is the common construct-and-initialize path.
func (rt *Runtime) Spawn(native Native, startEnabled bool, opts ...Option) (*Proxy, error) {
	p := rt.NewProxy(native, opts...)
	if err := p.Initialize(startEnabled); err != nil {
		return nil, err
	}
	return p, nil
}
