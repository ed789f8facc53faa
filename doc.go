/*
Package tico provides a minimal local version control tool.

tico tracks the files of a working directory, records them in linear per-branch
commit histories and stores their contents in a content addressable store,
keyed by a fingerprint of the content.

The engine lives in pkg/engine, the command line in cmd/tico.
*/
package tico
