// Package reftable maps the short ids of a resource file to objects and
// back.
//
// A Table has two disjoint namespaces, one for external references and one
// for embedded objects.  The loader fills it by id as declarations are read;
// the writer fills it by object identity as the graph is discovered, using
// a Seq to allocate ids.
package reftable
