package reactive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefBasics(t *testing.T) {
	r := NewRef(1)
	assert.True(t, IsRef(r))
	assert.Equal(t, 1, r.Value())

	r.Set(2)
	assert.Equal(t, 2, r.Value())
}

func TestRefNewRefOnExistingRefReturnsUnchanged(t *testing.T) {
	r := NewRef(1)
	r2 := NewRef(r)
	assert.Same(t, r, r2)
}

func TestRefDisposeDropsRegistryEntry(t *testing.T) {
	r := NewRef(1)
	runs := 0
	NewEffect(func() any { r.Value(); runs++; return nil }, EffectOptions{})
	r.Set(2)
	assert.Equal(t, 2, runs)

	r.Dispose()
	_, tracked := getKeyMap(r)
	assert.False(t, tracked)

	r.Set(3)
	assert.Equal(t, 2, runs, "a disposed ref no longer notifies its former subscribers")
	assert.Equal(t, 3, r.Value(), "Value()/Set() keep working after Dispose")
}

func TestRefTriggersOnlyOnRealChange(t *testing.T) {
	r := NewRef(1)
	runs := 0
	NewEffect(func() any { r.Value(); runs++; return nil }, EffectOptions{})
	assert.Equal(t, 1, runs)

	r.Set(1) // same raw value: no-op
	assert.Equal(t, 1, runs)

	r.Set(2)
	assert.Equal(t, 2, runs)
}

func TestRefNaNEquality(t *testing.T) {
	nan := math.NaN()
	r := NewRef(nan)
	runs := 0
	NewEffect(func() any { r.Value(); runs++; return nil }, EffectOptions{})
	assert.Equal(t, 1, runs)

	r.Set(math.NaN()) // NaN is Object.is-equal to NaN: no retrigger
	assert.Equal(t, 1, runs)
}

func TestRefWrapsObjectValueReactively(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	r := NewRef(raw)
	wrapped, ok := r.Value().(*Reactive)
	if assert.True(t, ok) {
		assert.Same(t, raw, wrapped.ToRaw())
	}
}

func TestShallowRefDoesNotWrap(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	r := NewShallowRef(raw)
	_, ok := r.Value().(*Reactive)
	assert.False(t, ok)
	assert.Same(t, raw, r.Value())
}

func TestUnref(t *testing.T) {
	r := NewRef(5)
	assert.Equal(t, 5, Unref(r))
	assert.Equal(t, 5, Unref(5))
}

func TestTriggerRef(t *testing.T) {
	r := NewRef(1)
	runs := 0
	NewEffect(func() any { r.Value(); runs++; return nil }, EffectOptions{})
	assert.Equal(t, 1, runs)

	TriggerRef(r)
	assert.Equal(t, 2, runs, "triggerRef force-notifies without a value change")
}

func TestCustomRef(t *testing.T) {
	raw := 0
	var trackFn, triggerFn func()
	r := CustomRef(func(track func(), trigger func()) (func() any, func(any)) {
		trackFn = track
		triggerFn = trigger
		return func() any { return raw }, func(v any) { raw = v.(int); triggerFn() }
	})
	_ = trackFn

	runs := 0
	NewEffect(func() any { r.Value(); runs++; return nil }, EffectOptions{})
	assert.Equal(t, 1, runs)

	r.Set(5)
	assert.Equal(t, 5, raw)
	assert.Equal(t, 2, runs)
}

func TestToRefAndToRefs(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1, "b": 2})
	obj := NewReactive(raw)

	ref := ToRef(obj, "a")
	assert.Equal(t, 1, ref.Value())
	ref.Set(10)
	assert.Equal(t, 10, obj.Get("a"))

	refs := ToRefs(obj)
	assert.Equal(t, 10, refs["a"].Value())
	assert.Equal(t, 2, refs["b"].Value())
}

func TestProxyRefs(t *testing.T) {
	r := NewRef(1)
	p := ProxyRefs(map[string]any{"count": r, "label": "hi"})

	assert.Equal(t, 1, p.Get("count"))
	assert.Equal(t, "hi", p.Get("label"))

	p.Set("count", 2)
	assert.Equal(t, 2, r.Value(), "writing through an existing ref slot should set the ref")

	p.Set("label", "bye")
	assert.Equal(t, "bye", p.Get("label"))
}
