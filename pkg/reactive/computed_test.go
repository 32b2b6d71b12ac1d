package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputedBasicInvalidation(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"n": 1}))
	c := NewComputed(func() any { return o.Get("n").(int) * 2 })

	assert.Equal(t, 2, c.Value())
	o.Set("n", 5)
	assert.Equal(t, 10, c.Value())
}

func TestComputedPropagatesToDependentEffect(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"n": 1}))
	c := NewComputed(func() any { return o.Get("n").(int) * 2 })
	assert.Equal(t, 2, c.Value())

	runs := 0
	NewEffect(func() any {
		runs++
		c.Value()
		return nil
	}, EffectOptions{})
	assert.Equal(t, 1, runs)

	o.Set("n", 6)
	assert.Equal(t, 12, c.Value())
	assert.Equal(t, 2, runs, "the effect must re-run exactly once per source change")
}

func TestComputedCachesWithoutRecomputingUnnecessarily(t *testing.T) {
	computeCount := 0
	o := NewReactive(NewObject(map[string]any{"n": 1}))
	c := NewComputed(func() any {
		computeCount++
		return o.Get("n").(int) * 2
	})

	c.Value()
	c.Value()
	c.Value()
	assert.Equal(t, 1, computeCount)

	o.Set("n", 2)
	c.Value()
	c.Value()
	assert.Equal(t, 2, computeCount)
}

func TestWritableComputed(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"n": 1}))
	c := NewWritableComputed(
		func() any { return o.Get("n").(int) * 2 },
		func(v any) { o.Set("n", v.(int)/2) },
	)

	assert.False(t, c.IsReadonly())
	assert.Equal(t, 2, c.Value())
	c.Set(20)
	assert.Equal(t, 10, o.Get("n"))
	assert.Equal(t, 20, c.Value())
}

func TestComputedWithoutSetterIsReadonlyNoOp(t *testing.T) {
	c := NewComputed(func() any { return 1 })
	assert.True(t, c.IsReadonly())
	c.Set(5) // silently ignored
	assert.Equal(t, 1, c.Value())
}

func TestComputedChain(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"n": 1}))
	a := NewComputed(func() any { return o.Get("n").(int) + 1 })
	b := NewComputed(func() any { return a.Value().(int) * 10 })

	assert.Equal(t, 20, b.Value())
	o.Set("n", 4)
	assert.Equal(t, 50, b.Value())
}

func TestComputedCircularDependencyPanics(t *testing.T) {
	var b *Computed
	var a *Computed
	a = NewComputed(func() any { return b.Value() })
	b = NewComputed(func() any { return a.Value() })

	assert.PanicsWithValue(t, ErrCircularDependency, func() {
		a.Value()
	})
}

func TestComputedStop(t *testing.T) {
	o := NewReactive(NewObject(map[string]any{"n": 1}))
	c := NewComputed(func() any { return o.Get("n").(int) })
	assert.Equal(t, 1, c.Value())
	c.Stop()
	o.Set("n", 2)
	// The inner effect is stopped so the cache is never marked dirty again.
	assert.Equal(t, 1, c.Value())
}
