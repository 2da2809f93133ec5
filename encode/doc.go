// Package encode renders values, tag headers and property assignments of
// the text resource format.
//
// References to objects are rendered through a RefEncoder, which maps each
// object to an external or embedded id.  Without a RefEncoder, any non-null
// object reference is an unsupported value.
//
// # Related Packages
//
//   - github.com/signadot/tres/parse - the matching value stream
//   - github.com/signadot/tres/resource - graph writer built on this package
package encode
