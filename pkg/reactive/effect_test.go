package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectBasicTracking(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"a": 1}))
	spy := 0
	NewEffect(func() any {
		spy = o.Get("a").(int)
		return nil
	}, EffectOptions{})

	assert.Equal(t, 1, spy)
	o.Set("a", 2)
	assert.Equal(t, 2, spy)
	o.Set("a", 2) // no real change
	assert.Equal(t, 2, spy)
}

func TestEffectBranchingCleanup(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"ok": true, "x": 1, "y": 2}))
	out := 0
	NewEffect(func() any {
		if o.Get("ok").(bool) {
			out = o.Get("x").(int)
		} else {
			out = o.Get("y").(int)
		}
		return nil
	}, EffectOptions{})

	assert.Equal(t, 1, out)
	o.Set("ok", false)
	assert.Equal(t, 2, out)
	o.Set("x", 100)
	assert.Equal(t, 2, out, "effect no longer depends on x after branch flipped")
}

func TestEffectNesting(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"a": 1, "b": 1}))
	outer, inner := 0, 0
	NewEffect(func() any {
		NewEffect(func() any {
			inner = o.Get("b").(int)
			return nil
		}, EffectOptions{})
		outer = o.Get("a").(int)
		return nil
	}, EffectOptions{})

	o.Set("a", 2)
	assert.Equal(t, 2, outer)
	assert.Equal(t, 1, inner)

	o.Set("b", 2)
	assert.Equal(t, 2, inner)
}

func TestEffectSelfIncrementNoInfiniteLoop(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"n": 0}))
	count := 0
	NewEffect(func() any {
		count++
		o.Set("n", o.Get("n").(int)+1)
		if count > 10 {
			t.Fatal("effect re-entered itself")
		}
		return nil
	}, EffectOptions{})

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, o.Get("n"))
}

func TestEffectAllowRecurseWithDeferredScheduler(t *testing.T) {
	// A scheduler that runs synchronously inside trigger cannot actually
	// recurse: the triggering effect is still on the stack, so Run's own
	// re-entry guard no-ops it regardless of AllowRecurse. AllowRecurse only
	// does something once the scheduler defers past the end of the current
	// Run, which is what this test exercises.
	o := NewReactive(NewObject(map[string]any{"n": 0}))
	runs := 0
	var pending []*Effect
	NewEffect(func() any {
		runs++
		n := o.Get("n").(int)
		if n < 3 {
			o.Set("n", n+1)
		}
		return nil
	}, EffectOptions{
		AllowRecurse: true,
		Scheduler: func(eff *Effect) {
			pending = append(pending, eff)
		},
	})
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]
		next.Run()
	}
	assert.Equal(t, 4, runs)
}

func TestEffectDepsInvariant(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"a": 1, "b": 2}))
	e := NewEffect(func() any {
		o.Get("a")
		o.Get("b")
		return nil
	}, EffectOptions{})

	assert.Len(t, e.deps, 2)
	for _, d := range e.deps {
		assert.True(t, d.has(e))
	}

	Stop(e)
	assert.Empty(t, e.deps)
	assert.False(t, e.Active())
}

func TestEffectStopIdempotent(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"a": 1}))
	stops := 0
	e := NewEffect(func() any {
		o.Get("a")
		return nil
	}, EffectOptions{OnStop: func() { stops++ }})

	Stop(e)
	Stop(e)
	assert.Equal(t, 1, stops)
}

func TestPauseEnableResetTracking(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"a": 1}))
	reads := 0
	NewEffect(func() any {
		PauseTracking()
		o.Get("a")
		ResetTracking()
		o.Get("a")
		reads++
		return nil
	}, EffectOptions{})

	o.Set("a", 2)
	assert.Equal(t, 2, reads, "only the un-paused read should have subscribed")
}
