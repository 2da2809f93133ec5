// Package format names the codecs used to persist resource graphs and the
// error kinds shared by the loader and the writer.
//
// # Usage
//
//	f, err := format.ParseFormat("binary")
//	ext := f.Suffix(true) // ".scn"
//
//	if errors.Is(err, format.ErrStructure) {
//	    // a scene tree could not be assembled
//	}
//
// # Related Packages
//
//   - github.com/signadot/tres/parse - text value stream
//   - github.com/signadot/tres/resource - loading and saving graphs
package format
