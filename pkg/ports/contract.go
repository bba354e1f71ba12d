package ports

import (
	"testing"

	"github.com/aretw0/bubblefx/pkg/reactive"
	"github.com/stretchr/testify/assert"
)

// RunHintBinderContract runs a suite of tests to verify that a HintBinder
// implementation adheres to the defined interface contract. visible reads back
// whether a hint is currently shown.
func RunHintBinderContract(t *testing.T, newBinder func() (HintBinder, func(hint string) bool)) {
	t.Run("Static Bind", func(t *testing.T) {
		b, visible := newBinder()
		b.Bind("h", true)
		assert.True(t, visible("h"))
		b.Bind("h", false)
		assert.False(t, visible("h"))
		assert.False(t, visible("never-bound"))
	})

	t.Run("Live Bind Follows Condition", func(t *testing.T) {
		b, visible := newBinder()
		cond := reactive.NewValue(true)
		b.BindLive("h", cond)
		assert.True(t, visible("h"), "current value applies immediately")

		cond.Set(false)
		assert.False(t, visible("h"))
		cond.Set(true)
		assert.True(t, visible("h"))
	})

	t.Run("Rebinding Detaches Live Condition", func(t *testing.T) {
		b, visible := newBinder()
		cond := reactive.NewValue(true)
		b.BindLive("h", cond)
		b.Bind("h", false)

		cond.Set(false)
		cond.Set(true)
		assert.False(t, visible("h"))
	})
}
