package vdom

import "reflect"

// SameRef reports whether a and b are the same value by reference. Pointers,
// maps and channels compare by address, slices by backing array and length,
// and other comparable values with ==. Functions are never the same, since
// Go gives them no identity.
func SameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	switch ta.Kind() {
	case reflect.Func:
		return false
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

// safeEqual compares with ==, treating a runtime panic (an interface field
// holding an uncomparable value) as inequality.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// sameArgs compares thunk argument lists pairwise by reference.
func sameArgs(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !SameRef(prev[i], next[i]) {
			return false
		}
	}
	return true
}

// sameTaggers compares tagger chains pairwise by pointer.
func sameTaggers(prev, next []*Tagger) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if prev[i] != next[i] {
			return false
		}
	}
	return true
}
