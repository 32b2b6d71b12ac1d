package reactive

import "fmt"

// OpType tags the kind of operation that produced a track or trigger call.
// It carries no behavior of its own; it exists purely so onTrack/onTrigger
// debug hooks can describe what happened.
type OpType int

const (
	// OpGet marks a plain property read.
	OpGet OpType = iota
	// OpHas marks a `has`/`in`-style membership check.
	OpHas
	// OpIterate marks an enumeration of a target's own keys.
	OpIterate
	// OpAdd marks the creation of a previously-absent key.
	OpAdd
	// OpSet marks the mutation of an existing key's value.
	OpSet
	// OpDelete marks the removal of an existing key.
	OpDelete
	// OpClear marks a bulk-clear of every key on a target (collections only).
	OpClear
)

func (op OpType) String() string {
	switch op {
	case OpGet:
		return "get"
	case OpHas:
		return "has"
	case OpIterate:
		return "iterate"
	case OpAdd:
		return "add"
	case OpSet:
		return "set"
	case OpDelete:
		return "delete"
	case OpClear:
		return "clear"
	default:
		return fmt.Sprintf("OpType(%d)", int(op))
	}
}

// Key identifies a single trackable slot on a target. Ordinary keys wrap a
// string (object field name or stringified array index). The two reserved
// keys below are process-wide sentinels compared by identity, standing in
// for "enumeration of this target's own keys" and "enumeration of a map's
// keys" respectively.
type Key struct {
	name      string
	sentinel  bool
	sentinelN int
}

// String returns the human-readable form of the key, used in debug events
// and test assertions.
func (k Key) String() string {
	if k.sentinel {
		if k.sentinelN == 1 {
			return "<iterate>"
		}
		return "<map-key-iterate>"
	}
	return k.name
}

// PropKey wraps an ordinary field name or array index as a trackable Key.
func PropKey(name string) Key {
	return Key{name: name}
}

// LengthKey is the well-known key array targets use for their length slot.
var LengthKey = PropKey("length")

// ITERATE_KEY represents "enumeration of own keys of this target". trigger
// notifies its dep whenever a key is added to or removed from a non-array
// target; array ADD/DELETE notifies the "length" dep instead.
var ITERATE_KEY = Key{sentinel: true, sentinelN: 1}

// MAP_KEY_ITERATE_KEY represents "enumeration of the keys of a map target".
// It is exported for the collection (Map/Set) handlers, which are not
// implemented by this package but share its track/trigger contract.
var MAP_KEY_ITERATE_KEY = Key{sentinel: true, sentinelN: 2}

// isIntegerKey reports whether name parses losslessly to a non-negative
// integer, the definition used throughout §4.1 for array-aware trigger
// selection (e.g. deciding which indices a length truncation invalidates).
func isIntegerKey(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		if i == 0 && c == '0' && len(name) > 1 {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
