// +build !appengine

package store

import (
	"reflect"
	"unsafe"
)

// UnsafeStringToBytes converts strings to []byte without memcopy.
//
// The result must not be mutated.
func UnsafeStringToBytes(s string) []byte {
	ln := len(s)
	/* #nosec */
	return *(*[]byte)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  ln,
		Cap:  ln,
		Data: (*(*reflect.StringHeader)(unsafe.Pointer(&s))).Data,
	}))
}

// UnsafeBytesToString converts []byte to string without a memcopy.
//
// The slice must not be reused afterwards.
func UnsafeBytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	/* #nosec */
	return *(*string)(unsafe.Pointer(&reflect.StringHeader{Data: uintptr(unsafe.Pointer(&b[0])), Len: len(b)}))
}
