package reactive

import "github.com/kodelabs-go/reactivity/pkg/reactive/monitoring"

// Computed wraps a lazy effect in a cached, dirty-flag-driven memoized
// value. Like Ref it is logically a target with one synthetic key "value",
// but unlike Ref its inner effect subscribes to whatever the getter reads,
// so the cache invalidates automatically when any of that changes.
type Computed struct {
	getter     func() any
	setter     func(any)
	isReadonly bool
	effect     *Effect
	value      any
	dirty      bool
	computing  bool
}

// NewComputed builds a read-only computed ref from getter.
func NewComputed(getter func() any) *Computed {
	return newComputed(getter, nil, true)
}

// NewWritableComputed builds a computed ref with both a getter and a
// setter; Set calls setter instead of being silently ignored.
func NewWritableComputed(getter func() any, setter func(any)) *Computed {
	return newComputed(getter, setter, false)
}

func newComputed(getter func() any, setter func(any), readonly bool) *Computed {
	c := &Computed{getter: getter, setter: setter, isReadonly: readonly, dirty: true}
	c.effect = NewEffect(func() any {
		return c.getter()
	}, EffectOptions{
		Lazy: true,
		Scheduler: func(e *Effect) {
			if !c.dirty {
				c.dirty = true
				trigger(c, false, OpSet, TriggerParams{Key: valueKey, HasKey: true})
			}
		},
	})
	return c
}

// Value reads the cache, recomputing through the inner effect if dirty,
// then tracks (c, GET, "value") so consumers of the computed re-evaluate
// in turn when the cache is later invalidated.
//
// Recomputing while already recomputing means the getter observed its own
// (possibly indirect) Value() synchronously, which would otherwise recurse
// forever; that case panics with ErrCircularDependency instead.
func (c *Computed) Value() any {
	if c.dirty {
		if c.computing {
			panic(ErrCircularDependency)
		}
		monitoring.GetGlobalMetrics().RecordCacheMiss("computed")
		c.computing = true
		defer func() { c.computing = false }()
		c.value = c.effect.Run()
		c.dirty = false
	} else {
		monitoring.GetGlobalMetrics().RecordCacheHit("computed")
	}
	track(c, OpGet, valueKey)
	return c.value
}

// Set calls the user-supplied setter. A read-only computed (no setter)
// silently ignores the write; a host UI would additionally warn here.
func (c *Computed) Set(value any) {
	if c.setter == nil {
		return
	}
	c.setter(value)
}

// IsReadonly reports whether this computed has no setter.
func (c *Computed) IsReadonly() bool { return c.isReadonly }

// Stop releases the inner effect's subscriptions, as if the computed were
// never read again. Safe to call more than once.
func (c *Computed) Stop() {
	Stop(c.effect)
}

// Dispose stops the inner effect and drops c's own dependency-graph entry,
// so a disposed computed (and every dep it was still subscribed to) can be
// reclaimed together.
func (c *Computed) Dispose() {
	if c == nil {
		return
	}
	c.Stop()
	forgetTarget(c)
}
