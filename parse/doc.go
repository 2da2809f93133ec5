// Package parse provides the value stream of the text resource format.
//
// A Stream reads statements in file order: tag headers such as
//
//	[sub_resource type="Gradient" id="1"]
//
// and property assignments such as
//
//	offsets = PackedFloat32Array(0, 1)
//
// Reference literals (ExtResource("id") and SubResource("id")) are handed
// to a RefResolver as they are read, so that a caller maintaining a
// reference table can resolve them against what has been declared so far.
//
// # Usage
//
//	s := parse.NewStream(r)
//	for {
//	    st, err := s.Next(resolver)
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package parse
