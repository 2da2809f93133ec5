package main

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/scott-cotton/cli"
)

func deps(cfg *DepsConfig, cc *cli.Context, args []string) error {
	args, err := parseArgs(cfg.Deps, cc, args, 1)
	if err != nil {
		return err
	}
	var filter *vm.Program
	if cfg.Filter != "" {
		filter, err = compileFilter(cfg.Filter)
		if err != nil {
			return fmt.Errorf("%w: -filter: %w", cli.ErrUsage, err)
		}
	}
	paths, err := cfg.resPaths(args)
	if err != nil {
		return err
	}
	for _, p := range paths {
		ds, err := cfg.store.GetDependencies(p, true)
		if err != nil {
			return err
		}
		for _, d := range ds {
			path, typ := splitDep(d)
			if filter != nil {
				ok, err := runFilter(filter, depEnv(p, path, typ, cfg))
				if err != nil {
					return fmt.Errorf("filtering %s of %s: %w", path, p, err)
				}
				if !ok {
					continue
				}
			}
			if len(paths) > 1 {
				fmt.Fprintf(cc.Out, "%s: ", p)
			}
			if cfg.Types {
				fmt.Fprintln(cc.Out, d)
				continue
			}
			fmt.Fprintln(cc.Out, path)
		}
	}
	return nil
}

// splitDep splits a "path::Type" dependency.
func splitDep(d string) (string, string) {
	i := strings.LastIndex(d, "::")
	if i < 0 {
		return d, ""
	}
	return d[:i], d[i+2:]
}

func depEnv(file, path, typ string, cfg *DepsConfig) map[string]any {
	uid := ""
	if cfg.store.UIDs != nil {
		uid, _ = cfg.store.UIDs.UID(path)
	}
	return map[string]any{"file": file, "path": path, "type": typ, "uid": uid}
}

func compileFilter(src string) (*vm.Program, error) {
	env := map[string]any{"file": "", "path": "", "type": "", "uid": ""}
	return expr.Compile(src, expr.Env(env), expr.AsBool())
}

func runFilter(prg *vm.Program, env map[string]any) (bool, error) {
	res, err := expr.Run(prg, env)
	if err != nil {
		return false, err
	}
	b, _ := res.(bool)
	return b, nil
}
