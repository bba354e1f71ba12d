package reactive

// Future is a completion that resolves exactly once. Callbacks run on the
// goroutine that calls Resolve; Done can be waited on from anywhere.
type Future struct {
	resolved bool
	fns      []func()
	done     chan struct{}
}

// NewFuture returns an unresolved Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve completes the future and runs pending callbacks in registration
// order. It reports false if the future was already resolved.
func (f *Future) Resolve() bool {
	if f.resolved {
		return false
	}
	f.resolved = true
	close(f.done)
	fns := f.fns
	f.fns = nil
	for _, fn := range fns {
		fn()
	}
	return true
}

// OnResolve runs fn when the future resolves, or immediately if it already
// has.
func (f *Future) OnResolve(fn func()) {
	if f.resolved {
		fn()
		return
	}
	f.fns = append(f.fns, fn)
}

// Resolved reports whether Resolve was called. Only valid on the resolving
// goroutine; use Done elsewhere.
func (f *Future) Resolved() bool { return f.resolved }

// Done is closed when the future resolves.
func (f *Future) Done() <-chan struct{} { return f.done }
