// Package reactive implements the dependency-tracking engine that powers
// Reactivity's declarative primitives: a targetMap-based dependency graph,
// an effect runtime, reactive proxy handlers for plain objects and arrays,
// and the ref/computed/watch primitives built on top of the effect runtime.
//
// The engine presumes a single cooperative thread of execution: track and
// trigger are synchronous, and none of the package-level state (the effect
// stack, the tracking-state stack, the target registry) is synchronized.
// Callers that need concurrent access must serialize it themselves, the
// same way the host component tree that owns the scheduler does.
//
// Reactive() and friends wrap a raw *object (built with NewObject) or a
// raw array target (built with NewArray) in one of four proxy variants
// (mutable, readonly, shallow-mutable, shallow-readonly). Reading a field
// through the proxy subscribes the currently running Effect; writing
// triggers every Effect subscribed to that field, following the
// length-aware selection rules array writes require.
package reactive
