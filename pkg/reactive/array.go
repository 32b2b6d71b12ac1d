package reactive

import "strconv"

// arrayTarget is the raw slice backing a ReactiveArray. Identity (pointer)
// is what targetMap keys on, exactly as *object does for plain objects.
type arrayTarget struct {
	items []any
}

func newArrayTarget(items []any) *arrayTarget {
	t := &arrayTarget{items: make([]any, len(items))}
	copy(t.items, items)
	return t
}

// ReactiveArray is a proxy handle over a raw slice, implementing the same
// get/set/delete/has/ownKeys trap contract as Reactive but with the
// length-aware semantics of §4.1 rule 2 and the instrumented-method
// behavior of §4.3.
type ReactiveArray struct {
	raw *arrayTarget
	v   variant
}

var arrayProxyRegistry = map[*arrayTarget]map[variant]*ReactiveArray{}

func canonicalArrayProxy(raw *arrayTarget, v variant) *ReactiveArray {
	byVariant, ok := arrayProxyRegistry[raw]
	if !ok {
		byVariant = make(map[variant]*ReactiveArray)
		arrayProxyRegistry[raw] = byVariant
	}
	if p, ok := byVariant[v]; ok {
		return p
	}
	p := &ReactiveArray{raw: raw, v: v}
	byVariant[v] = p
	return p
}

// NewArray wraps items in a fresh raw array target and returns a mutable,
// deep reactive proxy over it.
func NewArray(items []any) *ReactiveArray {
	return canonicalArrayProxy(newArrayTarget(items), variantMutable)
}

// NewReadonlyArray wraps items as a deep readonly array proxy.
func NewReadonlyArray(items []any) *ReactiveArray {
	return canonicalArrayProxy(newArrayTarget(items), variantReadonly)
}

// NewShallowArray wraps items as a shallow mutable array proxy.
func NewShallowArray(items []any) *ReactiveArray {
	return canonicalArrayProxy(newArrayTarget(items), variantShallowMutable)
}

func (a *ReactiveArray) IsReactive() bool { return a != nil && !a.v.readonly }
func (a *ReactiveArray) IsReadonly() bool { return a != nil && a.v.readonly }
func (a *ReactiveArray) IsShallow() bool  { return a != nil && a.v.shallow }

// Dispose drops this array's dependency-graph entry and proxy-registry
// slot, mirroring Reactive.Dispose.
func (a *ReactiveArray) Dispose() {
	if a == nil {
		return
	}
	forgetTarget(a.raw)
	delete(arrayProxyRegistry, a.raw)
}

// Len reads the array's length through the get trap, tracking the
// synthetic "length" key.
func (a *ReactiveArray) Len() int {
	track(a.raw, OpGet, LengthKey)
	return len(a.raw.items)
}

// Get reads index i through the get trap. Unlike object field reads, an
// element that is a Ref is NOT unwrapped: integer-indexed array reads
// preserve ref identity (§4.3 step 7). Non-shallow object elements are
// still returned as a recursively constructed proxy of the same variant.
func (a *ReactiveArray) Get(i int) any {
	track(a.raw, OpGet, PropKey(strconv.Itoa(i)))
	if i < 0 || i >= len(a.raw.items) {
		return nil
	}
	val := a.raw.items[i]
	if a.v.shallow {
		return val
	}
	if nested, ok := val.(*object); ok {
		return reactiveOf(nested, a.v)
	}
	return val
}

// Set writes index i through the set trap. Incoming proxies are unwrapped
// to raw form unless shallow. hadKey is i < current length; writing past
// the end grows the array and triggers ADD (plus a length dep, since the
// key is an integer index), writing within bounds triggers SET only when
// the value actually changed.
func (a *ReactiveArray) Set(i int, value any) {
	if a.v.readonly {
		return
	}
	if !a.v.shallow {
		value = ToRaw(value)
	}
	hadKey := i < len(a.raw.items)
	var old any
	if hadKey {
		old = a.raw.items[i]
	}
	if i >= len(a.raw.items) {
		grown := make([]any, i+1)
		copy(grown, a.raw.items)
		a.raw.items = grown
	}
	a.raw.items[i] = value

	key := PropKey(strconv.Itoa(i))
	if !hadKey {
		trigger(a.raw, true, OpAdd, TriggerParams{Key: key, HasKey: true, NewValue: value})
	} else if hasChanged(old, value) {
		trigger(a.raw, true, OpSet, TriggerParams{Key: key, HasKey: true, NewValue: value, OldValue: old})
	}
}

// SetLen truncates or extends the array to n elements, triggering the
// array-length selection rule: the "length" dep plus every dep whose
// integer key is >= n (those indices were just invalidated).
func (a *ReactiveArray) SetLen(n int) {
	if a.v.readonly || n < 0 {
		return
	}
	if n < len(a.raw.items) {
		a.raw.items = a.raw.items[:n]
	} else if n > len(a.raw.items) {
		grown := make([]any, n)
		copy(grown, a.raw.items)
		a.raw.items = grown
	}
	trigger(a.raw, true, OpSet, TriggerParams{Key: LengthKey, HasKey: true, NewValue: n})
}

// Has performs a has-trap membership check against the current bounds.
func (a *ReactiveArray) Has(i int) bool {
	ok := i >= 0 && i < len(a.raw.items)
	track(a.raw, OpHas, PropKey(strconv.Itoa(i)))
	return ok
}

// OwnKeys enumerates the array's current integer indices plus "length",
// subscribing the caller to ITERATE_KEY.
func (a *ReactiveArray) OwnKeys() []string {
	track(a.raw, OpIterate, ITERATE_KEY)
	keys := make([]string, 0, len(a.raw.items)+1)
	for i := range a.raw.items {
		keys = append(keys, strconv.Itoa(i))
	}
	return append(keys, "length")
}

// Push instrumented per §4.3: the native append is bracketed in
// PauseTracking/ResetTracking so the implicit length read inside the
// mutation never subscribes the calling effect to its own write (which
// would otherwise loop forever). The observable mutation is then
// triggered explicitly, once, after tracking resumes.
func (a *ReactiveArray) Push(values ...any) int {
	if a.v.readonly {
		return len(a.raw.items)
	}
	PauseTracking()
	start := len(a.raw.items)
	for _, v := range values {
		if !a.v.shallow {
			v = ToRaw(v)
		}
		a.raw.items = append(a.raw.items, v)
	}
	ResetTracking()
	if len(values) > 0 {
		for i := range values {
			key := PropKey(strconv.Itoa(start + i))
			trigger(a.raw, true, OpAdd, TriggerParams{Key: key, HasKey: true, NewValue: values[i]})
		}
		trigger(a.raw, true, OpSet, TriggerParams{Key: LengthKey, HasKey: true, NewValue: len(a.raw.items)})
	}
	return len(a.raw.items)
}

// Pop instrumented per §4.3; returns the removed value and whether the
// array was non-empty.
func (a *ReactiveArray) Pop() (any, bool) {
	if a.v.readonly || len(a.raw.items) == 0 {
		return nil, false
	}
	PauseTracking()
	n := len(a.raw.items)
	val := a.raw.items[n-1]
	a.raw.items = a.raw.items[:n-1]
	ResetTracking()
	trigger(a.raw, true, OpDelete, TriggerParams{Key: PropKey(strconv.Itoa(n - 1)), HasKey: true, OldValue: val})
	trigger(a.raw, true, OpSet, TriggerParams{Key: LengthKey, HasKey: true, NewValue: len(a.raw.items)})
	return val, true
}

// triggerArrayDiff fires ADD/SET/DELETE for every index whose presence or
// stored value differs between old (a snapshot taken before the mutation)
// and the array's current items, plus a length SET when the length itself
// changed. Shift/Unshift/Splice reassign every slot from the insertion
// point onward exactly as a real Array.prototype implementation would (by
// walking the backing storage and writing each shifted slot in turn), so
// every index whose value moved needs the same SET an explicit a.Set(i, v)
// would have produced - not just the indices at the boundary of the edit.
func (a *ReactiveArray) triggerArrayDiff(old []any) {
	newItems := a.raw.items
	oldLen, newLen := len(old), len(newItems)
	n := oldLen
	if newLen > n {
		n = newLen
	}
	for i := 0; i < n; i++ {
		key := PropKey(strconv.Itoa(i))
		switch {
		case i < oldLen && i < newLen:
			if hasChanged(old[i], newItems[i]) {
				trigger(a.raw, true, OpSet, TriggerParams{Key: key, HasKey: true, NewValue: newItems[i], OldValue: old[i]})
			}
		case i < newLen:
			trigger(a.raw, true, OpAdd, TriggerParams{Key: key, HasKey: true, NewValue: newItems[i]})
		default:
			trigger(a.raw, true, OpDelete, TriggerParams{Key: key, HasKey: true, OldValue: old[i]})
		}
	}
	if oldLen != newLen {
		trigger(a.raw, true, OpSet, TriggerParams{Key: LengthKey, HasKey: true, NewValue: newLen})
	}
}

// Shift instrumented per §4.3; removes and returns the first element. Every
// surviving index is retriggered through triggerArrayDiff since its stored
// value shifts down by one slot.
func (a *ReactiveArray) Shift() (any, bool) {
	if a.v.readonly || len(a.raw.items) == 0 {
		return nil, false
	}
	PauseTracking()
	old := append([]any{}, a.raw.items...)
	val := old[0]
	a.raw.items = a.raw.items[1:]
	ResetTracking()
	a.triggerArrayDiff(old)
	return val, true
}

// Unshift instrumented per §4.3; prepends values and returns the new
// length. Every pre-existing index is retriggered through triggerArrayDiff
// since its stored value shifts up by len(values) slots.
func (a *ReactiveArray) Unshift(values ...any) int {
	if a.v.readonly || len(values) == 0 {
		return len(a.raw.items)
	}
	PauseTracking()
	if !a.v.shallow {
		for i, v := range values {
			values[i] = ToRaw(v)
		}
	}
	old := append([]any{}, a.raw.items...)
	a.raw.items = append(append([]any{}, values...), old...)
	ResetTracking()
	a.triggerArrayDiff(old)
	return len(a.raw.items)
}

// Splice instrumented per §4.3: removes count elements starting at start
// and inserts insert in their place, mirroring Array.prototype.splice.
// Everything from start onward is retriggered through triggerArrayDiff,
// since len(insert) != count shifts the tail by the difference.
func (a *ReactiveArray) Splice(start, count int, insert ...any) []any {
	if a.v.readonly {
		return nil
	}
	if start < 0 {
		start = 0
	}
	if start > len(a.raw.items) {
		start = len(a.raw.items)
	}
	if count < 0 {
		count = 0
	}
	if start+count > len(a.raw.items) {
		count = len(a.raw.items) - start
	}

	PauseTracking()
	old := append([]any{}, a.raw.items...)
	removed := make([]any, count)
	copy(removed, a.raw.items[start:start+count])
	if !a.v.shallow {
		for i, v := range insert {
			insert[i] = ToRaw(v)
		}
	}
	tail := append([]any{}, a.raw.items[start+count:]...)
	a.raw.items = append(a.raw.items[:start], append(append([]any{}, insert...), tail...)...)
	ResetTracking()
	a.triggerArrayDiff(old)
	return removed
}

// IndexOf instrumented per §4.3: every index in [0, length) is tracked
// before the search runs (so the caller subscribes to the whole array,
// not just the slot it happened to find), then a raw scan runs; if that
// finds nothing, it retries comparing ToRaw(element) against ToRaw(needle)
// so a proxy needle can still match a raw haystack element or vice versa.
func (a *ReactiveArray) IndexOf(needle any) int {
	n := len(a.raw.items)
	for i := 0; i < n; i++ {
		track(a.raw, OpGet, PropKey(strconv.Itoa(i)))
	}
	for i := 0; i < n; i++ {
		if objectIs(a.raw.items[i], needle) {
			return i
		}
	}
	rawNeedle := ToRaw(needle)
	for i := 0; i < n; i++ {
		if objectIs(ToRaw(a.raw.items[i]), rawNeedle) {
			return i
		}
	}
	return -1
}

// LastIndexOf mirrors IndexOf but scans from the end.
func (a *ReactiveArray) LastIndexOf(needle any) int {
	n := len(a.raw.items)
	for i := 0; i < n; i++ {
		track(a.raw, OpGet, PropKey(strconv.Itoa(i)))
	}
	for i := n - 1; i >= 0; i-- {
		if objectIs(a.raw.items[i], needle) {
			return i
		}
	}
	rawNeedle := ToRaw(needle)
	for i := n - 1; i >= 0; i-- {
		if objectIs(ToRaw(a.raw.items[i]), rawNeedle) {
			return i
		}
	}
	return -1
}

// Includes instrumented per §4.3, defined in terms of IndexOf.
func (a *ReactiveArray) Includes(needle any) bool {
	return a.IndexOf(needle) != -1
}
