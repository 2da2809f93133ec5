package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/signadot/tres/debug"
	"github.com/signadot/tres/format"
	"github.com/signadot/tres/reftable"
	"github.com/signadot/tres/scene"
	"github.com/signadot/tres/variant"
)

// BinaryCodec writes a discovered graph in a binary encoding.
type BinaryCodec interface {
	WriteBinary(w io.Writer, p *Plan) error
}

type Store struct {
	FS       FileSystem
	Registry *variant.Registry
	Cache    *Cache
	// UIDs, if set, maps uids to paths.  If it is a UIDRegistry, loaded
	// and saved uids are registered with it.
	UIDs   UIDResolver
	Binary BinaryCodec
	Log    *slog.Logger
	// Workers bounds LoadAll; 0 means GOMAXPROCS.
	Workers int

	defaults sync.Once
}

// NewStore returns a Store over fsys with a permissive registry that knows
// PackedScene and a fresh cache.
func NewStore(fsys FileSystem) *Store {
	reg := variant.NewRegistry(variant.Permissive())
	scene.Register(reg)
	return &Store{FS: fsys, Registry: reg, Cache: NewCache()}
}

func (s *Store) log() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

// init fills in a nil Registry or Cache on first use, so that a Store
// literal may be shared between goroutines.
func (s *Store) init() {
	s.defaults.Do(func() {
		if s.Registry == nil {
			s.Registry = variant.NewRegistry(variant.Permissive())
			scene.Register(s.Registry)
		}
		if s.Cache == nil {
			s.Cache = NewCache()
		}
	})
}

func (s *Store) registry() *variant.Registry {
	s.init()
	return s.Registry
}

func (s *Store) cache() *Cache {
	s.init()
	return s.Cache
}

// Load returns the main object of the file at path.  Errors carry the
// path and line of the failure; on error no object of the file is
// returned or cached.
func (s *Store) Load(ctx context.Context, path string, opts ...LoadOption) (*variant.Object, error) {
	return s.load(ctx, path, newLoadOpts(opts))
}

func (s *Store) load(ctx context.Context, path string, lo *loadOpts) (*variant.Object, error) {
	if o := inflightRoot(ctx, path); o != nil {
		s.log().Debug("dependency cycle, using object being loaded", "path", path)
		return o, nil
	}
	cache := s.cache()
	var target *variant.Object
	switch lo.mode {
	case CacheReuse:
		if o, ok := cache.Get(path); ok {
			if debug.Cache() {
				debug.Logf("cache: hit %s", path)
			}
			return o, nil
		}
	case CacheReplace, CacheReplaceDeep:
		target, _ = cache.Get(path)
	}
	if f, ok := format.FromSuffix(path); ok && f.IsBinary() {
		return nil, &format.Error{Kind: format.ErrUnrecognized, Path: path, Msg: "binary resources are write only"}
	}
	rc, err := s.FS.Open(path)
	if err != nil {
		return nil, openErr(path, err)
	}
	defer rc.Close()
	l := &loader{
		s:      s,
		ctx:    ctx,
		path:   path,
		opts:   lo,
		log:    s.log(),
		refs:   reftable.New(),
		target: target,
	}
	o, err := l.run(rc)
	if err != nil {
		return nil, format.InFile(err, path)
	}
	switch lo.mode {
	case CacheReuse:
		if r := cache.Put(path, o); r != o {
			s.log().Debug("concurrent load lost to resident object", "path", path)
			o = r
		}
	case CacheReplace, CacheReplaceDeep:
		cache.Replace(path, o)
	}
	if debug.Cache() {
		debug.Logf("cache: %s %s", lo.mode, path)
	}
	s.log().Debug("loaded", "path", path, "class", o.Class(), "mode", lo.mode.String())
	return o, nil
}

// LoadAll loads paths concurrently over the Store's cache with at most
// Workers loads in flight.  The first error cancels the remaining loads.
func (s *Store) LoadAll(ctx context.Context, paths []string, opts ...LoadOption) (map[string]*variant.Object, error) {
	n := s.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	var mu sync.Mutex
	res := make(map[string]*variant.Object, len(paths))
	for _, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := s.Load(gctx, p, opts...)
			if err != nil {
				return err
			}
			mu.Lock()
			res[p] = o
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Encode writes root as the text of a file at path without touching the
// file system.
func (s *Store) Encode(w io.Writer, path string, root *variant.Object, flags SaveFlags, opts ...SaveOption) error {
	so := newSaveOpts(opts)
	p, err := NewPlan(path, root, flags)
	if err != nil {
		return err
	}
	return s.write(w, p, so)
}

func (s *Store) write(w io.Writer, p *Plan, so *saveOpts) error {
	wr := &writer{w: w, p: p, uids: s.UIDs, opts: so.encOpts}
	return wr.write()
}

// Save writes the graph reachable from root to path.  The file is replaced
// only if the whole graph could be written.
func (s *Store) Save(path string, root *variant.Object, flags SaveFlags, opts ...SaveOption) (err error) {
	so := newSaveOpts(opts)
	if f, ok := format.FromSuffix(path); ok && f.IsBinary() {
		return s.saveBinary(path, root, flags)
	}
	if so.mintUIDs && root != nil && root.UID() == "" {
		if _, ok := s.UIDs.(UIDRegistry); ok {
			// the header carries the uid; it is registered once written
			root.SetUID(NewUID())
			defer func() {
				if err != nil {
					root.SetUID("")
				}
			}()
		}
	}
	p, err := NewPlan(path, root, flags)
	if err != nil {
		return format.InFile(err, path)
	}
	buf := &bytes.Buffer{}
	if err := s.write(buf, p, so); err != nil {
		return format.InFile(err, path)
	}
	if err := s.writeFile(path, buf.Bytes()); err != nil {
		return err
	}
	if flags.TakeoverPaths {
		s.takeover(p)
	}
	if reg, ok := s.UIDs.(UIDRegistry); ok && root.UID() != "" {
		reg.Register(root.UID(), path)
	}
	s.log().Debug("saved", "path", path, "external", len(p.Externals()), "embedded", len(p.Embedded))
	if debug.Save() {
		debug.Logf("save %s: %d bytes", path, buf.Len())
	}
	return nil
}

func (s *Store) writeFile(path string, d []byte) error {
	err := s.FS.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(d)
		return err
	})
	if err != nil {
		return &format.Error{Kind: format.ErrIO, Path: path, Msg: "writing", Err: err}
	}
	return nil
}

// takeover moves the saved objects into the file at p.Path.
func (s *Store) takeover(p *Plan) {
	cache := s.cache()
	p.Root.SetPath(p.Path)
	cache.Replace(p.Path, p.Root)
	for _, e := range p.Embedded {
		bp := variant.BuiltInPath(p.Path, e.ID)
		e.Object.SetPath(bp)
		cache.Replace(bp, e.Object)
	}
}

func (s *Store) saveBinary(path string, root *variant.Object, flags SaveFlags) error {
	if s.Binary == nil {
		return &format.Error{Kind: format.ErrBadFormat, Path: path, Msg: "no binary codec"}
	}
	p, err := NewPlan(path, root, flags)
	if err != nil {
		return format.InFile(err, path)
	}
	buf := &bytes.Buffer{}
	if err := s.Binary.WriteBinary(buf, p); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return s.writeFile(path, buf.Bytes())
}

// ConvertToBinary rewrites the text file src as a binary file dst.
// Dependencies are not loaded; they stay references to their paths.
func (s *Store) ConvertToBinary(ctx context.Context, src, dst string) error {
	if f, ok := format.FromSuffix(dst); !ok || !f.IsBinary() {
		return &format.Error{Kind: format.ErrBadFormat, Path: dst, Msg: "destination is not a binary resource path"}
	}
	root, err := s.Load(ctx, src, WithCacheMode(CacheIgnore), DependencyPlaceholders())
	if err != nil {
		return err
	}
	defer root.Release()
	return s.saveBinary(dst, root, SaveFlags{})
}

// IsUnrecognized reports whether err means the path holds no loadable
// resource.
func IsUnrecognized(err error) bool {
	return errors.Is(err, format.ErrUnrecognized) || errors.Is(err, fs.ErrNotExist)
}
