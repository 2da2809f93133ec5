package parse

type parseOpts struct {
	anyCtor bool
}

type ParseOption func(*parseOpts)

// AnyConstructor accepts constructor literals with names outside
// variant.Constructors.
func AnyConstructor() ParseOption {
	return func(o *parseOpts) { o.anyCtor = true }
}
