package main

import (
	"bytes"
	"context"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tres/resource"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := parseArgs(cfg.View, cc, args, 1)
	if err != nil {
		return err
	}
	paths, err := cfg.resPaths(args)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	for i, p := range paths {
		if i > 0 {
			io.WriteString(cc.Out, "\n")
		}
		if err := viewFile(cfg.store, cc.Out, p, resource.WithEncodeOptions(opts...)); err != nil {
			return err
		}
	}
	return nil
}

func viewFile(s *resource.Store, w io.Writer, path string, opts ...resource.SaveOption) error {
	root, err := s.Load(context.Background(), path,
		resource.WithCacheMode(resource.CacheIgnore), resource.DependencyPlaceholders())
	if err != nil {
		return err
	}
	defer root.Release()
	buf := &bytes.Buffer{}
	if err := s.Encode(buf, path, root, resource.SaveFlags{}, opts...); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}
