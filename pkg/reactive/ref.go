package reactive

// Ref is a single-slot reactive cell, logically a target with one synthetic
// key "value". Reading Value() tracks (ref, GET, "value"); writing through
// Set compares the incoming raw value against the stored raw value with
// NaN-aware equality and only triggers when something actually changed.
type Ref struct {
	rawValue any // value before any proxy wrapping, used for the equality check
	value    any // what Value() returns: rawValue, or a proxy of it
	shallow  bool
	getter   func() any
	setter   func(any)
}

// NewRef wraps value as a reactive cell. If value is already a Ref it is
// returned unchanged (refs do not nest). A raw object or array target is
// recursively wrapped into its mutable reactive proxy; anything else is
// stored as-is.
func NewRef(value any) *Ref {
	if existing, ok := value.(*Ref); ok {
		return existing
	}
	r := &Ref{}
	r.setRaw(value)
	return r
}

// NewShallowRef wraps value as a reactive cell whose contents are never
// auto-proxied, even if value is a raw object/array target.
func NewShallowRef(value any) *Ref {
	if existing, ok := value.(*Ref); ok {
		return existing
	}
	return &Ref{rawValue: value, value: value, shallow: true}
}

func (r *Ref) setRaw(raw any) {
	r.rawValue = raw
	if r.shallow {
		r.value = raw
		return
	}
	switch t := raw.(type) {
	case *object:
		r.value = NewReactive(t)
	case *arrayTarget:
		r.value = canonicalArrayProxy(t, variantMutable)
	default:
		r.value = raw
	}
}

// IsRef reports whether x is a *Ref.
func IsRef(x any) bool {
	_, ok := x.(*Ref)
	return ok
}

// Value reads the cell, tracking (r, GET, "value").
func (r *Ref) Value() any {
	if r.getter != nil {
		track(r, OpGet, valueKey)
		return r.getter()
	}
	track(r, OpGet, valueKey)
	return r.value
}

// valueKey is the one synthetic field every Ref and Computed exposes.
var valueKey = PropKey("value")

// Set writes the cell. A write whose raw value is unchanged from the
// stored raw value (NaN-aware) is a silent no-op, per §4.4 and testable
// property 6.
func (r *Ref) Set(value any) {
	if r.setter != nil {
		r.setter(value)
		return
	}
	raw := ToRaw(value)
	if !hasChanged(r.rawValue, raw) {
		return
	}
	r.setRaw(raw)
	trigger(r, false, OpSet, TriggerParams{Key: valueKey, HasKey: true, NewValue: r.value})
}

// Dispose drops r's dependency-graph entry, mirroring Reactive.Dispose. A
// disposed ref's Value()/Set() keep working, they just stop notifying
// subscribers that tracked it before Dispose.
func (r *Ref) Dispose() {
	if r == nil {
		return
	}
	forgetTarget(r)
}

// TriggerRef force-triggers r's subscribers without changing its value,
// for manual invalidation by callers.
func TriggerRef(r *Ref) {
	trigger(r, false, OpSet, TriggerParams{Key: valueKey, HasKey: true, NewValue: r.value})
}

// Unref returns x.Value() if x is a *Ref, else x unchanged.
func Unref(x any) any {
	if rf, ok := x.(*Ref); ok {
		return rf.Value()
	}
	return x
}

// CustomRef builds a Ref whose get/set are supplied by factory, which
// receives track/trigger closures bound to the new ref. This lets callers
// implement refs with custom invalidation timing (debounced writes, async
// sources) while still participating in the ordinary dependency graph.
func CustomRef(factory func(track func(), trigger func()) (get func() any, set func(any))) *Ref {
	r := &Ref{}
	trackFn := func() { track(r, OpGet, valueKey) }
	triggerFn := func() {
		trigger(r, false, OpSet, TriggerParams{Key: valueKey, HasKey: true})
	}
	get, set := factory(trackFn, triggerFn)
	r.getter = get
	r.setter = set
	return r
}

// toObjectPropRef and toArrayPropRef back ToRef/ToRefs: they have no
// independent value of their own. Reads and writes delegate straight to
// the backing object/array, so changes are observed through THAT target's
// proxy. Value() still records a (ref, "value") edge, but writes go to the
// backing target and never trigger it.
func toObjectPropRef(obj *Reactive, key string) *Ref {
	return CustomRef(func(trackFn, triggerFn func()) (func() any, func(any)) {
		return func() any { return obj.Get(key) },
			func(v any) { obj.Set(key, v) }
	})
}

func toArrayPropRef(arr *ReactiveArray, index int) *Ref {
	return CustomRef(func(trackFn, triggerFn func()) (func() any, func(any)) {
		return func() any { return arr.Get(index) },
			func(v any) { arr.Set(index, v) }
	})
}

// ToRef produces a Ref whose get/set simply read/write obj[key]. Reading
// or writing through it is observed by obj's own proxy; the ref's own
// "value" edge is never triggered.
func ToRef(obj *Reactive, key string) *Ref {
	return toObjectPropRef(obj, key)
}

// ToRefs produces one Ref per own key of obj, by way of ToRef.
func ToRefs(obj *Reactive) map[string]*Ref {
	out := make(map[string]*Ref)
	for _, k := range obj.raw.ownKeys() {
		out[k] = ToRef(obj, k)
	}
	return out
}

// ToRefsArray is ToRefs for an array proxy: one Ref per current index.
func ToRefsArray(arr *ReactiveArray) []*Ref {
	n := len(arr.raw.items)
	out := make([]*Ref, n)
	for i := 0; i < n; i++ {
		out[i] = toArrayPropRef(arr, i)
	}
	return out
}

// RefsProxy is the result of ProxyRefs: a lightweight view over a fixed set
// of named slots that auto-unwraps Refs on read and writes through a Ref's
// Value() when the existing slot holds one. It performs none of its own
// tracking; the Refs and Reactive proxies it forwards to do that.
type RefsProxy struct {
	fields map[string]any
}

// ProxyRefs wraps a plain map of named values (a mix of refs, reactive
// proxies, and plain values, as returned from a composable's setup
// function) so callers can read/write the fields directly without caring
// which entries happen to be refs.
func ProxyRefs(fields map[string]any) *RefsProxy {
	return &RefsProxy{fields: fields}
}

// Get returns fields[key], auto-unwrapping a Ref. Reactive proxies are
// returned unchanged.
func (p *RefsProxy) Get(key string) any {
	return Unref(p.fields[key])
}

// Set writes fields[key]. If the existing slot holds a Ref and value is
// not itself a Ref, the write goes through the ref's Set; otherwise the
// slot is replaced outright.
func (p *RefsProxy) Set(key string, value any) {
	if existing, ok := p.fields[key].(*Ref); ok {
		if _, isRef := value.(*Ref); !isRef {
			existing.Set(value)
			return
		}
	}
	p.fields[key] = value
}
