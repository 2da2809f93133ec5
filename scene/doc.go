// Package scene assembles node hierarchies from node records.
//
// Records arrive in declaration order, which is a pre-order traversal of
// the tree: the root first, then every node after its parent.  An
// Assembler checks this as records are added and fails with a structure
// error on a record whose parent or owner was never declared.
//
// A finished Scene is carried by a PackedScene object, the root object of a
// scene file.
package scene
