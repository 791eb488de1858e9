package internal

import "reflect"

// EqualFunc reports whether two values should be considered the same,
// in which case a write is skipped.
type EqualFunc func(a, b any) bool

// DefaultEqual compares comparable values with ==.
// Values that are not comparable (slices, maps, funcs) always count as changed.
func DefaultEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	// also catches structs and arrays holding uncomparable values, where == would panic
	if !reflect.ValueOf(a).Comparable() {
		return false
	}

	return a == b
}
