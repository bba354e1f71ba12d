package reactive

// Behavior is a value that changes over time, such as the camera facing or
// whether a video is being recorded.
type Behavior[T any] interface {
	// Get returns the current value.
	Get() T
	// Monitor delivers every change. When fireOnInitial is set the current
	// value is delivered once before Monitor returns.
	Monitor(fireOnInitial bool, fn func(T)) *Subscription
}

// Value is a settable Behavior. Set only notifies when the value changes.
type Value[T comparable] struct {
	cur     T
	changes *Stream[T]
}

// NewValue returns a Value holding initial.
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{cur: initial, changes: NewStream[T]()}
}

func (v *Value[T]) Get() T { return v.cur }

// Set stores x and notifies monitors if it differs from the current value.
func (v *Value[T]) Set(x T) {
	if x == v.cur {
		return
	}
	v.cur = x
	v.changes.Emit(x)
}

// Emit notifies monitors with x even if it equals the current value. Hosts
// use it to replay a reading, e.g. the camera reporting BACK again.
func (v *Value[T]) Emit(x T) {
	v.cur = x
	v.changes.Emit(x)
}

func (v *Value[T]) Monitor(fireOnInitial bool, fn func(T)) *Subscription {
	sub := v.changes.Subscribe(fn)
	if fireOnInitial {
		fn(v.cur)
	}
	return sub
}

type mapped[T any, U comparable] struct {
	src Behavior[T]
	fn  func(T) U
}

// Map derives a live Behavior. Monitors of the result only see changes of
// the mapped value.
func Map[T any, U comparable](src Behavior[T], fn func(T) U) Behavior[U] {
	return &mapped[T, U]{src: src, fn: fn}
}

func (m *mapped[T, U]) Get() U { return m.fn(m.src.Get()) }

func (m *mapped[T, U]) Monitor(fireOnInitial bool, fn func(U)) *Subscription {
	last := m.Get()
	sub := m.src.Monitor(false, func(x T) {
		u := m.fn(x)
		if u == last {
			return
		}
		last = u
		fn(u)
	})
	if fireOnInitial {
		fn(last)
	}
	return sub
}

// Not is the live negation of b.
func Not(b Behavior[bool]) Behavior[bool] {
	return Map(b, func(x bool) bool { return !x })
}

// Equals is true while b holds want.
func Equals[T comparable](b Behavior[T], want T) Behavior[bool] {
	return Map(b, func(x T) bool { return x == want })
}

// Once delivers the first value of b accepted by pred to fn, exactly once.
// The subscription is torn down before fn runs, including when the accepted
// value is the initial one.
func Once[T any](b Behavior[T], fireOnInitial bool, pred func(T) bool, fn func(T)) *Subscription {
	return once(func(f func(T)) *Subscription { return b.Monitor(fireOnInitial, f) }, pred, fn)
}

// First is Once for event streams.
func First[T any](s Observable[T], pred func(T) bool, fn func(T)) *Subscription {
	return once(s.Subscribe, pred, fn)
}

func once[T any](subscribe func(func(T)) *Subscription, pred func(T) bool, fn func(T)) *Subscription {
	var sub *Subscription
	fired := false
	var pending T
	sub = subscribe(func(v T) {
		if fired || (pred != nil && !pred(v)) {
			return
		}
		fired = true
		if sub == nil {
			// Initial delivery: sub is not assigned yet.
			pending = v
			return
		}
		sub.Unsubscribe()
		fn(v)
	})
	if fired && sub.Active() {
		sub.Unsubscribe()
		fn(pending)
	}
	return sub
}
