// Package binary writes resource graphs in a compact CBOR encoding.
//
// A binary file is the magic "TRES" followed by one canonical CBOR
// encoded [File].  The encoding mirrors the text form: external
// references, embedded objects in id order, then either the main object
// or the node records of a scene.  References are ids into the same two
// namespaces as the text form.
//
// Binary resources are write only; [Read] exists to inspect them.
package binary
