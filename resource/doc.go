// Package resource loads and saves object graphs in the text resource
// format.
//
// A Store ties together a FileSystem, a class Registry, a path keyed Cache
// and an optional UID resolver.  Loading reads a file tag by tag: embedded
// objects are instantiated and entered in the reference table before their
// properties are read, so that self and mutual references resolve, while
// external dependencies are loaded through the Store when first referenced.
//
// Saving discovers the graph reachable from the root in a Plan, classifying
// each object as external or embedded, and then emits the plan in a fixed
// order: header, external references, embedded objects sorted by id and the
// main object or scene nodes.
//
// # Related Packages
//
//   - github.com/signadot/tres/parse - the value stream read by the loader
//   - github.com/signadot/tres/encode - value rendering used by the writer
//   - github.com/signadot/tres/reftable - id tables shared by both
//   - github.com/signadot/tres/scene - node hierarchies of scene files
//   - github.com/signadot/tres/binary - binary codec for ConvertToBinary
package resource
