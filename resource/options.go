package resource

import "github.com/signadot/tres/encode"

type loadOpts struct {
	mode         CacheMode
	eager        bool
	placeholders bool
	progress     *Progress
	touched      *[]string
}

type LoadOption func(*loadOpts)

func newLoadOpts(opts []LoadOption) *loadOpts {
	lo := &loadOpts{}
	for _, opt := range opts {
		opt(lo)
	}
	return lo
}

func WithCacheMode(m CacheMode) LoadOption {
	return func(lo *loadOpts) { lo.mode = m }
}

// EagerDependencies loads each external reference when it is declared
// rather than when it is first used.
func EagerDependencies() LoadOption {
	return func(lo *loadOpts) { lo.eager = true }
}

// DependencyPlaceholders resolves external references to empty objects of
// the declared type carrying the dependency path and uid.  No dependency
// file is read.
func DependencyPlaceholders() LoadOption {
	return func(lo *loadOpts) { lo.placeholders = true }
}

// WithProgress reports the progress of the top level file to p.
func WithProgress(p *Progress) LoadOption {
	return func(lo *loadOpts) { lo.progress = p }
}

// TouchedDependencies appends the path of every external reference that
// was resolved while loading the top level file.
func TouchedDependencies(paths *[]string) LoadOption {
	return func(lo *loadOpts) { lo.touched = paths }
}

// depOpts returns the options used for dependencies of a file loaded with
// lo.
func (lo *loadOpts) depOpts() *loadOpts {
	res := &loadOpts{mode: CacheReuse, eager: lo.eager}
	if lo.mode == CacheReplaceDeep {
		res.mode = CacheReplaceDeep
	}
	return res
}

// SaveFlags are the independent toggles of a save.
type SaveFlags struct {
	// TakeoverPaths makes the saved objects belong to the new file: the
	// root takes the destination path and each embedded object a built-in
	// path within it.
	TakeoverPaths bool `toml:"takeover_paths"`
	// RelativePaths writes dependency paths relative to the destination.
	RelativePaths bool `toml:"relative_paths"`
	// BundleResources embeds dependencies that would otherwise be
	// referenced externally.
	BundleResources bool `toml:"bundle_resources"`
	// SkipEditorOnly drops editor-only properties.
	SkipEditorOnly bool `toml:"skip_editor_only"`
}

type saveOpts struct {
	mintUIDs bool
	encOpts  []encode.EncodeOption
}

type SaveOption func(*saveOpts)

func newSaveOpts(opts []SaveOption) *saveOpts {
	so := &saveOpts{}
	for _, opt := range opts {
		opt(so)
	}
	return so
}

// WithUIDs assigns a uid to a saved root that has none, registering it with
// the Store's UIDRegistry.
func WithUIDs() SaveOption {
	return func(so *saveOpts) { so.mintUIDs = true }
}

// WithEncodeOptions passes options to the value encoder.
func WithEncodeOptions(opts ...encode.EncodeOption) SaveOption {
	return func(so *saveOpts) { so.encOpts = append(so.encOpts, opts...) }
}
