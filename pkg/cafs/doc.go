// Package cafs provides a content-addressable store for file contents.
//
// Every content is indexed by its fingerprint (a blake2b digest, see pkg/fingerprint).
// Writing the same content twice stores a single object.
//
// The store keeps no reference count: deleting an object is only done on behalf of a caller
// that established that no commit nor staging entry references it anymore.
package cafs
