package reactive

// Subscription is the handle returned by Subscribe and Monitor.
type Subscription struct {
	cancel func()
	done   bool
}

// Unsubscribe stops delivery. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.done {
		return
	}
	s.done = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Active reports whether the subscription still receives values.
func (s *Subscription) Active() bool { return s != nil && !s.done }

// Observable is anything that delivers values to subscribers.
type Observable[T any] interface {
	Subscribe(fn func(T)) *Subscription
}

// Stream is a push-based event stream, such as taps on the screen.
// Streams are not safe for concurrent use; the host loop serializes access.
type Stream[T any] struct {
	subs map[int]*entry[T]
	next int
}

type entry[T any] struct {
	fn  func(T)
	sub *Subscription
}

// NewStream returns an empty stream.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]*entry[T])}
}

// Subscribe registers fn for every value emitted after this call.
func (s *Stream[T]) Subscribe(fn func(T)) *Subscription {
	if s.subs == nil {
		s.subs = make(map[int]*entry[T])
	}
	id := s.next
	s.next++
	e := &entry[T]{fn: fn}
	e.sub = &Subscription{cancel: func() { delete(s.subs, id) }}
	s.subs[id] = e
	return e.sub
}

// Emit delivers v to current subscribers in subscription order. Subscribers
// removed during delivery are skipped.
func (s *Stream[T]) Emit(v T) {
	for _, e := range s.snapshot() {
		if e.sub.Active() {
			e.fn(v)
		}
	}
}

// Len returns the number of active subscribers.
func (s *Stream[T]) Len() int { return len(s.subs) }

func (s *Stream[T]) snapshot() []*entry[T] {
	out := make([]*entry[T], 0, len(s.subs))
	for id := 0; id < s.next; id++ {
		if e, ok := s.subs[id]; ok {
			out = append(out, e)
		}
	}
	return out
}
