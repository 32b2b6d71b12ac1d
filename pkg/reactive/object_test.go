package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactiveIdempotentWrapping(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	r1 := NewReactive(raw)
	r2 := NewReactive(raw)
	assert.Same(t, r1, r2, "reactive(x) === reactive(x)")

	r3 := NewReactive(r1.ToRaw())
	assert.Same(t, r1, r3)
}

func TestToRawRoundTrip(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	r := NewReactive(raw)
	assert.Same(t, raw, r.ToRaw())
	assert.Same(t, raw, ToRaw(r))
}

func TestReadonlyIdempotentWrapping(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	ro1 := NewReadonly(raw)
	ro2 := NewReadonly(raw)
	assert.Same(t, ro1, ro2)
	assert.True(t, ro1.IsReadonly())
	assert.False(t, ro1.IsReactive())
}

func TestReactiveAndReadonlyAreDistinctVariants(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	mutable := NewReactive(raw)
	readonly := NewReadonly(raw)
	assert.NotSame(t, mutable, readonly)
}

func TestReactiveDisposeDropsRegistryEntries(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	r := NewReactive(raw)

	runs := 0
	NewEffect(func() any { r.Get("a"); runs++; return nil }, EffectOptions{})
	r.Set("a", 2)
	assert.Equal(t, 2, runs)

	r.Dispose()
	_, tracked := getKeyMap(raw)
	assert.False(t, tracked, "Dispose must drop the target's dependency-graph entry")
	_, registered := proxyRegistry[raw]
	assert.False(t, registered, "Dispose must drop the proxy-registry entry")

	// Reactivity is gone, but the data is still readable/writable directly.
	r.Set("a", 3)
	assert.Equal(t, 2, runs, "a disposed target no longer notifies its former subscribers")
}

func TestReadonlyRejectsWrites(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	ro := NewReadonly(raw)
	ro.Set("a", 2)
	assert.Equal(t, 1, ro.Get("a"))
	assert.False(t, ro.Delete("a"))
	assert.True(t, ro.Has("a"))
}

func TestReactiveSetTriggersAddAndSet(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	r := NewReactive(raw)
	runs := 0
	NewEffect(func() any {
		r.Get("a")
		runs++
		return nil
	}, EffectOptions{})
	assert.Equal(t, 1, runs)

	r.Set("a", 2) // existing key, changed value: re-runs the "a" subscriber
	assert.Equal(t, 2, runs)

	r.Set("b", 3) // new key, unrelated to "a": does not re-run the subscriber
	assert.Equal(t, 2, runs)

	assert.Equal(t, 2, r.Get("a"))
	assert.Equal(t, 3, r.Get("b"))
}

func TestReactiveDeleteTriggersIterate(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1, "b": 2})
	r := NewReactive(raw)
	var keys []string
	NewEffect(func() any {
		keys = r.OwnKeys()
		return nil
	}, EffectOptions{})

	assert.ElementsMatch(t, []string{"a", "b"}, keys)
	r.Delete("a")
	assert.ElementsMatch(t, []string{"b"}, keys)
}

func TestReactiveNestedObjectGetsSameVariant(t *testing.T) {
	inner := NewObject(map[string]any{"v": 1})
	outer := NewObject(map[string]any{"inner": inner})
	ro := NewReadonly(outer)
	nested := ro.Get("inner")
	nestedReactive, ok := nested.(*Reactive)
	if assert.True(t, ok) {
		assert.True(t, nestedReactive.IsReadonly())
	}
}

func TestShallowReactiveDoesNotWrapNested(t *testing.T) {
	inner := NewObject(map[string]any{"v": 1})
	outer := NewObject(map[string]any{"inner": inner})
	shallow := NewShallowReactive(outer)
	nested := shallow.Get("inner")
	_, isProxy := nested.(*Reactive)
	assert.False(t, isProxy)
	assert.Same(t, inner, nested)
}

func TestReactiveSetThroughExistingRef(t *testing.T) {
	r := NewRef(1)
	obj := NewObject(map[string]any{"a": r})
	proxy := NewReactive(obj)

	proxy.Set("a", 2)
	assert.Equal(t, 2, proxy.Get("a"))
	assert.Equal(t, 2, r.Value(), "write through existing ref slot should set the ref, not replace it")
}

func TestMarkRaw(t *testing.T) {
	raw := NewObject(map[string]any{"a": 1})
	assert.False(t, IsMarkedRaw(raw))
	MarkRaw(raw)
	assert.True(t, IsMarkedRaw(raw))
}
