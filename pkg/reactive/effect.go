package reactive

import (
	"errors"
	"fmt"
	"time"

	"github.com/kodelabs-go/reactivity/pkg/reactive/monitoring"
	"github.com/kodelabs-go/reactivity/pkg/reactive/observability"
)

// ErrCircularDependency is the panic value Computed.Value raises when a
// computed value observes itself through a synchronous dependency cycle.
var ErrCircularDependency = errors.New("reactive: circular dependency detected")

// DebugEvent is the payload delivered to an effect's OnTrack/OnTrigger hooks.
// It mirrors the shape described in §6: enough information for a devtools
// panel to render "effect X was notified because target.key changed".
type DebugEvent struct {
	Effect    *Effect
	Target    any
	Type      OpType
	Key       Key
	NewValue  any
	OldValue  any
	OldTarget any
}

// EffectOptions configures an effect's scheduling and debug behavior.
type EffectOptions struct {
	// Lazy defers the first run to the caller; NewEffect invokes fn once
	// immediately unless Lazy is set.
	Lazy bool
	// Scheduler, when set, receives the effect on trigger instead of the
	// effect running synchronously. Required to safely combine with
	// AllowRecurse.
	Scheduler func(e *Effect)
	// OnTrack fires whenever this effect subscribes to a new dep.
	OnTrack func(DebugEvent)
	// OnTrigger fires whenever this effect is selected to (re)run by a
	// trigger, before it actually runs.
	OnTrigger func(DebugEvent)
	// OnStop fires exactly once, when Stop first transitions the effect
	// to inactive.
	OnStop func()
	// AllowRecurse permits a trigger to re-select this effect while it is
	// already executing. Only safe in combination with Scheduler, which
	// breaks the synchronous re-entry cycle.
	AllowRecurse bool
}

// Effect is a reactive computation: a user function plus the bookkeeping
// needed to know which deps it is subscribed to and whether it is still
// alive.
type Effect struct {
	id      uint64
	raw     func() any
	options EffectOptions
	active  bool
	deps    []*Dep
	onStop  func()
}

var effectUID uint64

// newEffectID hands out a monotonically increasing id, used only for
// identity in debug output and tests; it has no bearing on ordering.
func newEffectID() uint64 {
	effectUID++
	return effectUID
}

// Global single-threaded runtime state (§5): the engine presumes a single
// cooperative thread of execution, so none of this is synchronized.
var (
	effectStack   []*Effect
	activeEffect  *Effect
	shouldTrack   = true
	trackingStack []bool

	// liveEffects is every Effect between NewEffect and Stop, kept only for
	// the dependency-graph-size metric; it has no bearing on tracking.
	liveEffects = make(map[*Effect]struct{})
)

// recordDependencyGraphSnapshot reports the current registry size and the
// average number of deps each live effect is subscribed to, so a host
// running PrometheusMetrics can alert on a dependency graph that grows
// without bound (typically a missing Dispose or Stop somewhere).
func recordDependencyGraphSnapshot() {
	total := 0
	for e := range liveEffects {
		total += len(e.deps)
	}
	var avg float64
	if n := len(liveEffects); n > 0 {
		avg = float64(total) / float64(n)
	}
	monitoring.GetGlobalMetrics().RecordDependencyGraphSize(len(targetMap), avg)
}

// PauseTracking suspends track() globally until the matching ResetTracking.
// Calls nest: each Pause/Enable pushes the previous shouldTrack value.
func PauseTracking() {
	trackingStack = append(trackingStack, shouldTrack)
	shouldTrack = false
}

// EnableTracking resumes track() globally until the matching ResetTracking.
func EnableTracking() {
	trackingStack = append(trackingStack, shouldTrack)
	shouldTrack = true
}

// ResetTracking restores whatever shouldTrack value was active before the
// most recent Pause/EnableTracking call, defaulting to true if the stack
// is empty.
func ResetTracking() {
	if len(trackingStack) == 0 {
		shouldTrack = true
		return
	}
	last := len(trackingStack) - 1
	shouldTrack = trackingStack[last]
	trackingStack = trackingStack[:last]
}

// NewEffect creates a reactive computation bound to fn. Unless options.Lazy is
// set, it runs once immediately. The returned value is the constructed
// Effect itself; call it like a function via Run(), or pass it to Stop.
func NewEffect(fn func() any, options EffectOptions) *Effect {
	e := &Effect{
		id:      newEffectID(),
		raw:     fn,
		options: options,
		active:  true,
	}
	if options.OnStop != nil {
		e.onStop = options.OnStop
	}
	liveEffects[e] = struct{}{}
	start := time.Now()
	if !options.Lazy {
		e.Run()
	}
	monitoring.GetGlobalMetrics().RecordEffectCreation("effect", time.Since(start))
	return e
}

// ID returns the effect's process-unique, monotonically increasing id.
func (e *Effect) ID() uint64 { return e.id }

// Active reports whether Stop has not yet been called.
func (e *Effect) Active() bool { return e.active }

// cleanup removes e from every dep it is currently a member of and empties
// e.deps. Called before every run so that branches no longer reached by
// fn's body stop re-triggering it (see §4.2 rationale).
func (e *Effect) cleanup() {
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = e.deps[:0]
}

// onEffectStack reports whether e is already present in the effect stack,
// guarding against an effect re-entering its own execution.
func onEffectStack(e *Effect) bool {
	for _, s := range effectStack {
		if s == e {
			return true
		}
	}
	return false
}

// Run executes the effect following the invocation semantics of §4.2:
// inactive effects shortcut to fn() (or nothing, if scheduled), an effect
// already on the stack silently no-ops, and otherwise cleanup/push/run/pop
// happens in a guaranteed-release sequence.
func (e *Effect) Run() any {
	if !e.active {
		if e.options.Scheduler == nil {
			return e.raw()
		}
		return nil
	}
	if onEffectStack(e) {
		return nil
	}

	e.cleanup()

	EnableTracking()
	effectStack = append(effectStack, e)
	activeEffect = e

	defer func() {
		effectStack = effectStack[:len(effectStack)-1]
		ResetTracking()
		if len(effectStack) > 0 {
			activeEffect = effectStack[len(effectStack)-1]
		} else {
			activeEffect = nil
		}
	}()

	return e.raw()
}

// Stop deactivates the effect: cleanup runs, OnStop fires (once), and the
// effect is marked inactive. Idempotent; calling Stop on an already-stopped
// effect is a no-op.
func Stop(e *Effect) {
	if e == nil || !e.active {
		return
	}
	e.cleanup()
	if e.onStop != nil {
		e.onStop()
	}
	e.active = false
	delete(liveEffects, e)
}

// currentEffect returns the effect that is currently running, or nil when
// nothing is executing. track() reads this to decide what to subscribe.
func currentEffect() *Effect {
	return activeEffect
}

// track records that the current effect reads (target, key). No-op when
// tracking is globally paused or no effect is executing. opType is purely
// informational, forwarded to OnTrack for debug tooling.
func track(target any, opType OpType, key Key) {
	if !shouldTrack || activeEffect == nil {
		return
	}
	km := getOrCreateKeyMap(target)
	dep := km.getOrCreate(key)
	if !dep.has(activeEffect) {
		dep.add(activeEffect)
		activeEffect.deps = append(activeEffect.deps, dep)
		observability.RecordBreadcrumb("track", fmt.Sprintf("effect %d tracked key %q", activeEffect.id, key.String()), map[string]interface{}{
			"effectID": activeEffect.id,
			"opType":   opType.String(),
			"key":      key.String(),
		})
		if activeEffect.options.OnTrack != nil {
			activeEffect.options.OnTrack(DebugEvent{
				Effect: activeEffect,
				Target: target,
				Type:   opType,
				Key:    key,
			})
		}
	}
}

// TriggerParams carries the optional extra context a write can supply to
// trigger: the new/old values (for SET/ADD on plain targets) and the old
// target snapshot (for collection CLEAR, which this package does not
// implement but whose handlers share this signature).
type TriggerParams struct {
	Key       Key
	HasKey    bool
	NewValue  any
	OldValue  any
	OldTarget any
}

// trigger resolves (target, opType, params) to the set of effects that
// must (re)run, applying the synthetic-key selection rules of §4.1, and
// either invokes each effect's scheduler or runs it directly. Effects
// equal to the currently-executing effect are skipped unless they opted
// into AllowRecurse.
func trigger(target any, isArray bool, opType OpType, params TriggerParams) {
	km, ok := getKeyMap(target)
	if !ok {
		return
	}

	var deps []*Dep

	switch {
	case opType == OpClear:
		for _, d := range km.deps {
			deps = append(deps, d)
		}
	case isArray && params.HasKey && params.Key == LengthKey:
		newLen, _ := toInt(params.NewValue)
		for key, d := range km.deps {
			if key == LengthKey {
				deps = append(deps, d)
				continue
			}
			if n, ok := isIntegerKey(key.name); ok && n >= newLen {
				deps = append(deps, d)
			}
		}
	default:
		if params.HasKey {
			if d, ok := km.get(params.Key); ok {
				deps = append(deps, d)
			}
		}
		switch opType {
		case OpAdd:
			if !isArray {
				if d, ok := km.get(ITERATE_KEY); ok {
					deps = append(deps, d)
				}
			} else if params.HasKey {
				if _, isInt := isIntegerKey(params.Key.name); isInt {
					if d, ok := km.get(LengthKey); ok {
						deps = append(deps, d)
					}
				}
			}
		case OpDelete:
			if !isArray {
				if d, ok := km.get(ITERATE_KEY); ok {
					deps = append(deps, d)
				}
			}
		}
	}

	effects := collectEffects(deps)
	runTriggeredEffects(target, opType, params, effects)
	recordDependencyGraphSnapshot()
}

// collectEffects flattens a set of deps into a single de-duplicated,
// order-preserving snapshot safe to iterate while effects run (and
// re-subscribe) concurrently with the iteration.
func collectEffects(deps []*Dep) []*Effect {
	seen := make(map[*Effect]struct{})
	var out []*Effect
	for _, d := range deps {
		for _, e := range d.snapshot() {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

func runTriggeredEffects(target any, opType OpType, params TriggerParams, effects []*Effect) {
	for _, e := range effects {
		if e == activeEffect && !e.options.AllowRecurse {
			continue
		}
		observability.RecordBreadcrumb("trigger", fmt.Sprintf("effect %d re-run by %s on key %q", e.id, opType, params.Key.String()), map[string]interface{}{
			"effectID": e.id,
			"opType":   opType.String(),
			"key":      params.Key.String(),
		})
		if e.options.OnTrigger != nil {
			e.options.OnTrigger(DebugEvent{
				Effect:    e,
				Target:    target,
				Type:      opType,
				Key:       params.Key,
				NewValue:  params.NewValue,
				OldValue:  params.OldValue,
				OldTarget: params.OldTarget,
			})
		}
		if e.options.Scheduler != nil {
			e.options.Scheduler(e)
		} else {
			e.Run()
		}
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
