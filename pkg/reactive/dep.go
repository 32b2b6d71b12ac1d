package reactive

// Dep is the set of effects subscribed to a single (target, key) pair.
// Membership is unique per effect; iteration order follows insertion order
// so that trigger's copied snapshot replays subscribers in the order they
// first tracked the dep.
type Dep struct {
	order []*Effect
	index map[*Effect]int
}

func newDep() *Dep {
	return &Dep{index: make(map[*Effect]int)}
}

// has reports whether e is already subscribed to this dep.
func (d *Dep) has(e *Effect) bool {
	_, ok := d.index[e]
	return ok
}

// add subscribes e to this dep. It is a no-op if e is already present.
func (d *Dep) add(e *Effect) {
	if d.has(e) {
		return
	}
	d.index[e] = len(d.order)
	d.order = append(d.order, e)
}

// remove unsubscribes e from this dep.
func (d *Dep) remove(e *Effect) {
	i, ok := d.index[e]
	if !ok {
		return
	}
	delete(d.index, e)
	d.order = append(d.order[:i], d.order[i+1:]...)
	for j := i; j < len(d.order); j++ {
		d.index[d.order[j]] = j
	}
}

// snapshot returns a fresh copy of the subscribed effects in insertion
// order. trigger must iterate a copy: running an effect calls cleanup
// (removing it from every dep) and then re-tracks it, so iterating the
// live set while effects mutate it would not terminate.
func (d *Dep) snapshot() []*Effect {
	out := make([]*Effect, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Dep) len() int { return len(d.order) }

// KeyMap maps every tracked Key of a single target to its Dep.
type KeyMap struct {
	deps map[Key]*Dep
}

func newKeyMap() *KeyMap {
	return &KeyMap{deps: make(map[Key]*Dep)}
}

func (km *KeyMap) get(key Key) (*Dep, bool) {
	d, ok := km.deps[key]
	return d, ok
}

func (km *KeyMap) getOrCreate(key Key) *Dep {
	d, ok := km.deps[key]
	if !ok {
		d = newDep()
		km.deps[key] = d
	}
	return d
}

// targetMap is the process-wide Target -> KeyMap registry. The spec calls
// for the Target edge to be weakly keyed so a target can be reclaimed once
// the caller drops it; Go's map cannot express that directly (there is no
// public weak-map primitive), so this registry is keyed on target identity
// and entries are only ever removed explicitly via forgetTarget (called by
// the Dispose methods). This is a
// documented deviation, recorded in DESIGN.md.
var targetMap = make(map[any]*KeyMap)

func getKeyMap(target any) (*KeyMap, bool) {
	km, ok := targetMap[target]
	return km, ok
}

func getOrCreateKeyMap(target any) *KeyMap {
	km, ok := targetMap[target]
	if !ok {
		km = newKeyMap()
		targetMap[target] = km
	}
	return km
}

// forgetTarget drops a target's KeyMap entirely. It is not part of the
// public API; reactive containers call it from a finalizer-free explicit
// Dispose so long-lived test suites can shed registry growth.
func forgetTarget(target any) {
	delete(targetMap, target)
}
