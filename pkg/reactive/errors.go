package reactive

import (
	"fmt"
	"time"

	"github.com/kodelabs-go/reactivity/pkg/reactive/observability"
)

// ErrorCode tags where in the reactive pipeline a recovered panic or
// returned error originated, mirroring the error-handling facade described
// in §7: the engine's own code never panics on correct usage, but user
// functions (getters, setters, watch callbacks, custom ref factories) can.
type ErrorCode int

const (
	// ErrWatchGetter tags a panic from a watch source getter.
	ErrWatchGetter ErrorCode = iota
	// ErrWatchCallback tags a panic from a watch/watchEffect callback.
	ErrWatchCallback
	// ErrWatchCleanup tags a panic from an onInvalidate cleanup function.
	ErrWatchCleanup
	// ErrScheduler tags a panic from a user-supplied effect scheduler.
	ErrScheduler
)

func (c ErrorCode) String() string {
	switch c {
	case ErrWatchGetter:
		return "watch getter"
	case ErrWatchCallback:
		return "watch callback"
	case ErrWatchCleanup:
		return "watch cleanup"
	case ErrScheduler:
		return "scheduler"
	default:
		return "unknown"
	}
}

// HostError wraps a recovered panic with the ErrorCode that identifies
// which kind of user callback produced it, so a host component's error
// boundary can decide how to react.
type HostError struct {
	Code  ErrorCode
	Cause any
}

func (e *HostError) Error() string {
	return fmt.Sprintf("reactive: %s panicked: %v", e.Code, e.Cause)
}

// ErrorHandler receives errors surfaced by callWithErrorHandling. Hosts
// (component trees, CLI harnesses, tests) install their own handler via
// SetErrorHandler; the default handler re-panics, preserving today's
// fail-fast behavior for callers that never opt in.
type ErrorHandler func(err *HostError)

var errorHandler ErrorHandler = func(err *HostError) {
	panic(err)
}

// SetErrorHandler installs the facade every user callback funnels through.
// Passing nil restores the default (re-panic) handler.
func SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = func(err *HostError) { panic(err) }
	}
	errorHandler = h
}

// reportHostError forwards err to the installed observability.ErrorReporter,
// if one is configured, attaching whatever breadcrumbs led up to it. A
// missing reporter is the common case (no-op, matching the ErrorHandler
// default of simply re-panicking) so this never changes control flow.
func reportHostError(err *HostError) {
	reporter := observability.GetErrorReporter()
	if reporter == nil {
		return
	}
	reporter.ReportError(err, &observability.ErrorContext{
		EventName:   err.Code.String(),
		Timestamp:   time.Now(),
		Breadcrumbs: observability.GetBreadcrumbs(),
		Extra:       map[string]interface{}{"cause": err.Cause},
	})
}

// callWithErrorHandling invokes fn, recovering any panic and routing it to
// the installed ErrorHandler tagged with code. The guaranteed-release
// semantics of effect execution (§4.2) are unaffected: this recover lives
// inside fn's caller, not inside Effect.Run, so the stack bookkeeping still
// unwinds via its own defer regardless of whether fn panics.
func callWithErrorHandling(code ErrorCode, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := &HostError{Code: code, Cause: r}
			reportHostError(err)
			errorHandler(err)
		}
	}()
	fn()
}

// callWithAsyncErrorHandling is callWithErrorHandling for callbacks that
// return a value, used by watch getters whose result feeds the next
// pipeline stage.
func callWithAsyncErrorHandling(code ErrorCode, fn func() any) (result any) {
	defer func() {
		if r := recover(); r != nil {
			err := &HostError{Code: code, Cause: r}
			reportHostError(err)
			errorHandler(err)
		}
	}()
	return fn()
}
