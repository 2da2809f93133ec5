package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
)

func rename(cfg *RenameConfig, cc *cli.Context, args []string) error {
	args, err := parseArgs(cfg.Rename, cc, args, 2)
	if err != nil {
		return err
	}
	file, err := cfg.resPath(args[0])
	if err != nil {
		return err
	}
	renames := map[string]string{}
	for _, a := range args[1:] {
		from, to, ok := strings.Cut(a, "=")
		if !ok || from == "" || to == "" {
			return fmt.Errorf("%w: argument %q expected old=new", cli.ErrUsage, a)
		}
		if from, err = cfg.resPath(from); err != nil {
			return err
		}
		if to, err = cfg.resPath(to); err != nil {
			return err
		}
		renames[from] = to
	}
	return cfg.store.RenameDependencies(file, renames)
}
