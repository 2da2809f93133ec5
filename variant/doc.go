// Package variant provides the in-memory model of a resource graph.
//
// # Values
//
// A Value is a recursive tagged union, in the same spirit as a document
// IR: the Type field says which of the other fields are meaningful.
//
//   - NilType: null
//   - BoolType, IntType, FloatType: scalars in Bool, Int64, Float64
//   - StringType, StringNameType, NodePathType: text in String
//   - CtorType: a constructor literal such as Vector2(1, 2); the constructor
//     name is in Ctor and its arguments in Values
//   - ArrayType: elements in Values; ElemType names a typed array
//   - DictType: Keys[i] maps to Values[i]
//   - ObjectType: a reference edge to Object (which may be nil)
//   - NativeType: an arbitrary Go value with no textual representation
//
// # Objects
//
// An Object is a dynamically typed property bag identified by pointer
// identity.  Many values may refer to the same Object, and references may
// form cycles.  Objects have an optional storage path; an object without a
// path, or with a built-in path of the form "file::id", is persisted inside
// the file that references it.
//
// Objects are created through a Registry, which knows which classes may be
// instantiated by name and how to initialize them.
//
// # Thread Safety
//
// Values and Objects are not safe for concurrent mutation.  A Registry is
// safe for concurrent use.
package variant
