package memory

import (
	"sort"
	"sync"

	"github.com/aretw0/bubblefx/pkg/reactive"
)

// Hints implements ports.HintBinder in memory.
// Reads are safe for concurrent use; binds must come from the host loop.
type Hints struct {
	mu      sync.RWMutex
	visible map[string]bool
	live    map[string]*reactive.Subscription
	changes *reactive.Stream[HintChange]
}

// HintChange is emitted every time a hint's visibility is written.
type HintChange struct {
	Hint    string
	Visible bool
	Live    bool
}

// NewHints creates a binder with every hint hidden.
func NewHints() *Hints {
	return &Hints{
		visible: make(map[string]bool),
		live:    make(map[string]*reactive.Subscription),
		changes: reactive.NewStream[HintChange](),
	}
}

func (h *Hints) Bind(hint string, on bool) {
	h.detach(hint)
	h.set(hint, on, false)
}

func (h *Hints) BindLive(hint string, cond reactive.Behavior[bool]) {
	h.detach(hint)
	sub := cond.Monitor(true, func(on bool) { h.set(hint, on, true) })
	h.mu.Lock()
	h.live[hint] = sub
	h.mu.Unlock()
}

// Visible reports whether hint is shown.
func (h *Hints) Visible(hint string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.visible[hint]
}

// Live reports whether hint is bound to a live condition.
func (h *Hints) Live(hint string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.live[hint].Active()
}

// Shown lists the visible hints, sorted.
func (h *Hints) Shown() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []string
	for k, v := range h.visible {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Changes streams every visibility write.
func (h *Hints) Changes() reactive.Observable[HintChange] { return h.changes }

func (h *Hints) set(hint string, on, live bool) {
	h.mu.Lock()
	h.visible[hint] = on
	h.mu.Unlock()
	h.changes.Emit(HintChange{Hint: hint, Visible: on, Live: live})
}

func (h *Hints) detach(hint string) {
	h.mu.Lock()
	sub := h.live[hint]
	delete(h.live, hint)
	h.mu.Unlock()
	sub.Unsubscribe()
}
