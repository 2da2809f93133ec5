package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func tresMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	if err := cfg.setup(); err != nil {
		return err
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// parseArgs parses the options of cmd and requires at least n
// arguments.
func parseArgs(cmd *cli.Command, cc *cli.Context, args []string, n int) ([]string, error) {
	args, err := cmd.Parse(cc, args)
	if err != nil {
		cmd.Usage(cc, err)
		return nil, cli.ExitCodeErr(1)
	}
	if len(args) < n {
		return nil, fmt.Errorf("%w: expected at least %d arguments, got %d", cli.ErrUsage, n, len(args))
	}
	return args, nil
}
