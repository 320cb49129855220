// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"reflect"
	"unsafe"
)

// identityOf returns a stable key for value suitable for back-reference
// bookkeeping, and reports whether one could be derived at all. Go has
// no general object identity, so back-referencing is restricted to host
// representations with a derivable stable data pointer: strings, byte
// slices, and the reference kinds reflect can extract a pointer from.
//
// The returned key is only meaningful while the value it was derived
// from is still reachable: a uintptr is invisible to the garbage
// collector, and a freed allocation's address can be handed to an
// unrelated later value. Whoever keys a table on this MUST hold a live
// reference to value for as long as the table entry exists (see
// backRefEntry in encoder.go).
func identityOf(value any) (uintptr, bool) {
	switch v := value.(type) {
	case string:
		if len(v) == 0 {
			return 0, false
		}
		return uintptr(unsafe.Pointer(unsafe.StringData(v))), true
	case []byte:
		if len(v) == 0 {
			return 0, false
		}
		return uintptr(unsafe.Pointer(&v[0])), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Slice, reflect.Func, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}
