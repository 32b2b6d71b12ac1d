package reactive

// object is the raw, unproxied target backing a Reactive handle: a plain
// dynamic bag of named fields, analogous to a JS object literal. Identity
// (pointer equality) is what targetMap keys on.
type object struct {
	keys []string
	data map[string]any
}

func newObject() *object {
	return &object{data: make(map[string]any)}
}

func (o *object) has(key string) bool {
	_, ok := o.data[key]
	return ok
}

func (o *object) get(key string) (any, bool) {
	v, ok := o.data[key]
	return v, ok
}

func (o *object) set(key string, value any) {
	if !o.has(key) {
		o.keys = append(o.keys, key)
	}
	o.data[key] = value
}

func (o *object) delete(key string) bool {
	if !o.has(key) {
		return false
	}
	delete(o.data, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

func (o *object) ownKeys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// variant is one of the four proxy handler flavors described in §4.3.
type variant struct {
	readonly bool
	shallow  bool
}

var (
	variantMutable         = variant{readonly: false, shallow: false}
	variantReadonly        = variant{readonly: true, shallow: false}
	variantShallowMutable  = variant{readonly: false, shallow: true}
	variantShallowReadonly = variant{readonly: true, shallow: true}
)

// Reactive is a proxy handle over a raw object: every read traps through
// track, every write (unless readonly) traps through trigger.
type Reactive struct {
	raw *object
	v   variant
}

// proxyRegistry maps (raw target, variant) -> the canonical Reactive proxy
// for that pairing, so reactive(reactive(x)) === reactive(x) by pointer
// identity, and reactive(x) called twice on the same x also returns the
// same *Reactive.
var proxyRegistry = map[*object]map[variant]*Reactive{}

func canonicalProxy(raw *object, v variant) *Reactive {
	byVariant, ok := proxyRegistry[raw]
	if !ok {
		byVariant = make(map[variant]*Reactive)
		proxyRegistry[raw] = byVariant
	}
	if p, ok := byVariant[v]; ok {
		return p
	}
	p := &Reactive{raw: raw, v: v}
	byVariant[v] = p
	return p
}

// NewObject is the entry point that mints a raw *object for field data
// supplied by the caller.
//
// NewObject creates a raw object holding a copy of fields, suitable for
// wrapping with Reactive, Readonly, ShallowReactive, or ShallowReadonly.
// After wrapping, fields are read and written through the proxy.
func NewObject(fields map[string]any) *object {
	o := newObject()
	for k, val := range fields {
		o.set(k, val)
	}
	return o
}

func wrap(raw *object, v variant) *Reactive {
	return canonicalProxy(raw, v)
}

// reactiveOf builds (or reuses) a Reactive proxy of the given variant over
// an already-constructed raw object, used when Get returns a nested object
// field and must hand back a proxy of the same variant/shallow-ness.
func reactiveOf(raw *object, v variant) *Reactive {
	return wrap(raw, v)
}

// NewReactive wraps raw as a mutable, deep reactive proxy. Calling it again
// on the same raw (or on an existing mutable proxy) returns the identical
// *Reactive instance.
func NewReactive(raw *object) *Reactive {
	if raw == nil {
		return nil
	}
	return wrap(raw, variantMutable)
}

// NewReadonly wraps raw as a deep readonly proxy: writes are silently
// rejected and reads do not track.
func NewReadonly(raw *object) *Reactive {
	if raw == nil {
		return nil
	}
	return wrap(raw, variantReadonly)
}

// NewShallowReactive wraps raw as a mutable proxy whose nested object
// fields are returned raw (un-proxied); only the top level is tracked.
func NewShallowReactive(raw *object) *Reactive {
	if raw == nil {
		return nil
	}
	return wrap(raw, variantShallowMutable)
}

// NewShallowReadonly wraps raw as a readonly proxy whose nested object
// fields are returned raw; only the top level is write-protected.
func NewShallowReadonly(raw *object) *Reactive {
	if raw == nil {
		return nil
	}
	return wrap(raw, variantShallowReadonly)
}

// IsReactive reports whether x is a mutable (non-readonly) Reactive proxy.
func (r *Reactive) IsReactive() bool {
	return r != nil && !r.v.readonly
}

// IsReadonly reports whether x is a readonly Reactive proxy.
func (r *Reactive) IsReadonly() bool {
	return r != nil && r.v.readonly
}

// IsShallow reports whether only the top level of this proxy is observed.
func (r *Reactive) IsShallow() bool {
	return r != nil && r.v.shallow
}

// ToRaw returns the underlying target, unwrapping through nested proxies.
func (r *Reactive) ToRaw() *object {
	if r == nil {
		return nil
	}
	return r.raw
}

// Get reads key through the get trap: reserved-key handling is covered by
// the dedicated methods above, so Get only ever sees ordinary field reads.
// Non-readonly reads call track(raw, GET, key). Non-shallow results that
// are themselves objects are returned as a recursively constructed proxy
// of the same variant; refs are transparently unwrapped unless shallow.
func (r *Reactive) Get(key string) any {
	val, ok := r.raw.get(key)
	if !r.v.readonly {
		track(r.raw, OpGet, PropKey(key))
	}
	if !ok {
		return nil
	}
	if r.v.shallow {
		return val
	}
	if rf, isRef := val.(*Ref); isRef {
		return rf.Value()
	}
	if nested, isObj := val.(*object); isObj {
		return reactiveOf(nested, r.v)
	}
	return val
}

// Has performs a membership check through the has trap: has(raw, key) is
// answered natively, then track(raw, HAS, key) subscribes the caller.
func (r *Reactive) Has(key string) bool {
	ok := r.raw.has(key)
	track(r.raw, OpHas, PropKey(key))
	return ok
}

// OwnKeys enumerates the object's own fields through the ownKeys trap,
// subscribing the caller to ITERATE_KEY so additions/removals re-trigger.
func (r *Reactive) OwnKeys() []string {
	track(r.raw, OpIterate, ITERATE_KEY)
	return r.raw.ownKeys()
}

// Set writes key=value through the set trap. Readonly proxies silently
// reject the write (§4.3, development builds would additionally warn).
// Non-shallow writes unwrap an incoming proxy to its raw form first, and
// if the existing slot holds a Ref while the incoming value does not,
// assign through the ref instead of replacing the slot. Otherwise the
// write triggers ADD (new key) or SET (changed value, NaN-aware).
func (r *Reactive) Set(key string, value any) {
	if r.v.readonly {
		return
	}
	if !r.v.shallow {
		value = ToRaw(value)
		if existing, ok := r.raw.get(key); ok {
			if rf, isRef := existing.(*Ref); isRef {
				if _, incomingIsRef := value.(*Ref); !incomingIsRef {
					rf.Set(value)
					return
				}
			}
		}
	}
	hadKey := r.raw.has(key)
	old, _ := r.raw.get(key)
	r.raw.set(key, value)
	if !hadKey {
		trigger(r.raw, false, OpAdd, TriggerParams{Key: PropKey(key), HasKey: true, NewValue: value})
	} else if hasChanged(old, value) {
		trigger(r.raw, false, OpSet, TriggerParams{Key: PropKey(key), HasKey: true, NewValue: value, OldValue: old})
	}
}

// Delete removes key through the delete trap, triggering DELETE only when
// the key actually existed. Readonly proxies silently reject the delete.
func (r *Reactive) Delete(key string) bool {
	if r.v.readonly {
		return false
	}
	old, hadKey := r.raw.get(key)
	ok := r.raw.delete(key)
	if ok && hadKey {
		trigger(r.raw, false, OpDelete, TriggerParams{Key: PropKey(key), HasKey: true, OldValue: old})
	}
	return ok
}

// Dispose drops this object's dependency-graph entry and proxy-registry
// slot. Existing proxy handles keep reading and writing the underlying
// data afterward, they just stop participating in tracking; intended for
// long-lived processes or test suites that construct many short-lived
// reactive objects and want to shed registry growth explicitly rather
// than wait on process exit.
func (r *Reactive) Dispose() {
	if r == nil {
		return
	}
	forgetTarget(r.raw)
	delete(proxyRegistry, r.raw)
}
