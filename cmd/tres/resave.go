package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tres/resource"
	"github.com/signadot/tres/variant"
)

func resave(cfg *ResaveConfig, cc *cli.Context, args []string) error {
	args, err := parseArgs(cfg.Resave, cc, args, 1)
	if err != nil {
		return err
	}
	paths, err := cfg.resPaths(args)
	if err != nil {
		return err
	}
	ctx := context.Background()
	loaded, err := cfg.store.LoadAll(ctx, paths, cfg.project.LoadOptions()...)
	if err != nil {
		return err
	}
	flags := cfg.flags()
	var saveOpts []resource.SaveOption
	if cfg.UIDs {
		saveOpts = append(saveOpts, resource.WithUIDs())
	}
	changed := 0
	for _, p := range paths {
		if cfg.Check {
			differs, err := checkFile(cfg, cc.Out, p, loaded[p], flags)
			if err != nil {
				return err
			}
			if differs {
				changed++
			}
			continue
		}
		if err := cfg.store.Save(p, loaded[p], flags, saveOpts...); err != nil {
			return err
		}
	}
	if cfg.UIDs && !cfg.Check {
		if uids, ok := cfg.store.UIDs.(*resource.UIDs); ok {
			if err := cfg.project.SaveUIDs(uids); err != nil {
				return err
			}
		}
	}
	if changed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkFile prints how saving root to path would change the file, and
// reports whether it would.
func checkFile(cfg *ResaveConfig, w io.Writer, path string, root *variant.Object, flags resource.SaveFlags) (bool, error) {
	rc, err := cfg.store.FS.Open(path)
	if err != nil {
		return false, err
	}
	old, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return false, err
	}
	buf := &bytes.Buffer{}
	if err := cfg.store.Encode(buf, path, root, flags); err != nil {
		return false, err
	}
	if bytes.Equal(old, buf.Bytes()) {
		return false, nil
	}
	fmt.Fprintf(w, "--- %s\n", path)
	io.WriteString(w, lineDiff(string(old), buf.String()))
	return true, nil
}
