package reactive

import (
	"fmt"

	"github.com/kodelabs-go/reactivity/pkg/reactive/observability"
)

// OnInvalidate is the callback argument watch/watchEffect pass to their
// user function. Calling it records fn as both the cleanup to run before
// the next invocation and the underlying effect's OnStop hook, so the
// caller can abort in-flight async work either on the next change or on
// Stop.
type OnInvalidate func(fn func())

// WatchCallback receives the freshly computed value, the previous value,
// and an OnInvalidate registrar. The previous value is nil only on the
// immediate first call of an Immediate watcher; otherwise the first call
// receives the value read when the watcher was created.
type WatchCallback func(newValue, oldValue any, onInvalidate OnInvalidate)

// WatchOptions configures a watch/watchEffect pipeline; see §4.6.
type WatchOptions struct {
	Immediate bool
	Deep      bool
	Flush     FlushMode
	OnTrack   func(DebugEvent)
	OnTrigger func(DebugEvent)
}

// StopHandle stops the underlying effect when called; calling it more than
// once is a harmless no-op (Stop is idempotent).
type StopHandle func()

func mergeOpts(opts []WatchOptions) WatchOptions {
	if len(opts) == 0 {
		return WatchOptions{}
	}
	return opts[0]
}

// synthesizeGetter builds a getter closure from a watch source, following
// §4.6: a Ref/Computed source reads its Value(); a Reactive/ReactiveArray
// source implies Deep and returns itself each run so traverse can walk it;
// a bare func() any is used as the getter directly; a []any slice maps
// each element through this same synthesis and collects the results,
// implying Deep if any element does.
func synthesizeGetter(source any) (getter func() any, forceDeep bool) {
	switch s := source.(type) {
	case *Ref:
		return func() any { return s.Value() }, false
	case *Computed:
		return func() any { return s.Value() }, false
	case *Reactive:
		return func() any { return s }, true
	case *ReactiveArray:
		return func() any { return s }, true
	case func() any:
		return s, false
	case []any:
		getters := make([]func() any, len(s))
		deepAny := false
		for i, item := range s {
			g, d := synthesizeGetter(item)
			getters[i] = g
			deepAny = deepAny || d
		}
		return func() any {
			out := make([]any, len(getters))
			for i, g := range getters {
				out[i] = g()
			}
			return out
		}, deepAny
	default:
		return func() any { return source }, false
	}
}

// traverse recursively reads every nested value reachable from value, so
// that the currently-running effect subscribes to all of it (not just the
// top-level slot). seen breaks cycles: a Reactive or ReactiveArray reachable
// from itself stops recursion the second time its raw target is visited.
// Refs and Computeds are unwrapped on every visit and are not recorded in
// seen.
func traverse(value any, seen map[any]bool) {
	switch v := value.(type) {
	case *Ref:
		traverse(v.Value(), seen)
	case *Computed:
		traverse(v.Value(), seen)
	case *Reactive:
		if v == nil || seen[v.raw] {
			return
		}
		seen[v.raw] = true
		for _, k := range v.OwnKeys() {
			traverse(v.Get(k), seen)
		}
	case *ReactiveArray:
		if v == nil || seen[v.raw] {
			return
		}
		seen[v.raw] = true
		n := v.Len()
		for i := 0; i < n; i++ {
			traverse(v.Get(i), seen)
		}
	case []any:
		for _, item := range v {
			traverse(item, seen)
		}
	case map[string]any:
		for _, item := range v {
			traverse(item, seen)
		}
	default:
		// primitive: nothing further to read.
	}
}

// valueChanged applies the NaN-aware, shallow comparison §4.6 calls for,
// with the one special case it names explicitly: two []any values compare
// element-wise on each element's own identity, not as a single DeepEqual
// blob (which would treat two distinct-but-equal-contents arrays as equal,
// and would compare reactive proxy elements structurally instead of by
// reference).
func valueChanged(old, new any) bool {
	oldArr, oldIsArr := old.([]any)
	newArr, newIsArr := new.([]any)
	if oldIsArr && newIsArr {
		if len(oldArr) != len(newArr) {
			return true
		}
		for i := range oldArr {
			if hasChanged(oldArr[i], newArr[i]) {
				return true
			}
		}
		return false
	}
	return hasChanged(old, new)
}

// baseWatch is the single implementation both Watch and WatchEffect funnel
// into, per §4.6. getter is already wrapped in the error-handling facade
// by the caller. cb is nil in watchEffect mode.
func baseWatch(getter func() any, forceDeep bool, cb WatchCallback, opts WatchOptions, extraOnStop func()) StopHandle {
	deep := opts.Deep || forceDeep

	effectiveGetter := getter
	if cb != nil && deep {
		effectiveGetter = func() any {
			val := getter()
			traverse(val, make(map[any]bool))
			return val
		}
	}

	var oldValue any
	first := true
	var cleanupFn func()
	onInvalidate := OnInvalidate(func(fn func()) { cleanupFn = fn })

	runCleanup := func() {
		if cleanupFn != nil {
			fn := cleanupFn
			cleanupFn = nil
			callWithErrorHandling(ErrWatchCleanup, fn)
		}
	}

	var e *Effect
	job := func() {
		if !e.Active() {
			return
		}
		if cb != nil {
			newValue := e.Run()
			if deep || valueChanged(oldValue, newValue) {
				runCleanup()
				reportedOld := oldValue
				if first {
					reportedOld = nil
				}
				observability.RecordBreadcrumb("watch", fmt.Sprintf("watch callback fired for effect %d", e.ID()), map[string]interface{}{
					"effectID": e.ID(),
				})
				callWithErrorHandling(ErrWatchCallback, func() {
					cb(newValue, reportedOld, onInvalidate)
				})
				oldValue = newValue
				first = false
			}
		} else {
			runCleanup()
			e.Run()
		}
	}

	effectOpts := EffectOptions{
		Lazy:      true,
		OnTrack:   opts.OnTrack,
		OnTrigger: opts.OnTrigger,
		OnStop: func() {
			runCleanup()
			if extraOnStop != nil {
				extraOnStop()
			}
		},
	}
	switch opts.Flush {
	case FlushSync:
		effectOpts.Scheduler = func(*Effect) { job() }
	case FlushPost:
		effectOpts.Scheduler = func(eff *Effect) {
			queuePostRenderEffect(uintptr(eff.ID()), job)
		}
	default: // FlushPre
		effectOpts.Scheduler = func(eff *Effect) {
			queuePreFlushCb(uintptr(eff.ID()), job)
		}
	}

	e = NewEffect(effectiveGetter, effectOpts)

	switch {
	case cb != nil && opts.Immediate:
		job()
	case cb != nil:
		oldValue = e.Run()
		first = false
	case opts.Flush == FlushPost:
		queuePostRenderEffect(uintptr(e.ID()), func() { e.Run() })
	default:
		e.Run()
	}

	return func() { Stop(e) }
}

// Watch builds a watcher over source (a *Ref, *Computed, *Reactive,
// *ReactiveArray, plain func() any, or []any mixing any of those) and
// invokes cb whenever the watched value changes.
func Watch(source any, cb WatchCallback, opts ...WatchOptions) StopHandle {
	o := mergeOpts(opts)
	getter, forceDeep := synthesizeGetter(source)
	wrapped := func() any {
		return callWithAsyncErrorHandling(ErrWatchGetter, getter)
	}
	return baseWatch(wrapped, forceDeep, cb, o, nil)
}

// WatchEffect runs fn once at creation (with FlushPost that first run is
// queued until FlushPostRenderEffects) and re-runs it whenever any reactive
// value it reads changes, with no separate old/new-value bookkeeping. If
// the previous run registered an invalidation callback via onInvalidate,
// it runs before the next invocation (and on Stop).
func WatchEffect(fn func(onInvalidate OnInvalidate), opts ...WatchOptions) StopHandle {
	o := mergeOpts(opts)
	var cleanupFn func()
	onInvalidate := OnInvalidate(func(f func()) { cleanupFn = f })
	runCleanup := func() {
		if cleanupFn != nil {
			f := cleanupFn
			cleanupFn = nil
			callWithErrorHandling(ErrWatchCleanup, f)
		}
	}
	getter := func() any {
		runCleanup()
		callWithErrorHandling(ErrWatchGetter, func() { fn(onInvalidate) })
		return nil
	}
	return baseWatch(getter, false, nil, o, runCleanup)
}
