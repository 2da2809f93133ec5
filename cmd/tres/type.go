package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func typeCmd(cfg *TypeConfig, cc *cli.Context, args []string) error {
	args, err := parseArgs(cfg.Type, cc, args, 1)
	if err != nil {
		return err
	}
	paths, err := cfg.resPaths(args)
	if err != nil {
		return err
	}
	for i, p := range paths {
		t, err := cfg.store.RecognizeType(p)
		if err != nil {
			return err
		}
		if len(paths) == 1 {
			fmt.Fprintln(cc.Out, t)
			continue
		}
		fmt.Fprintf(cc.Out, "%s: %s\n", args[i], t)
	}
	return nil
}
