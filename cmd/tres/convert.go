package main

import (
	"context"

	"github.com/scott-cotton/cli"

	"github.com/signadot/tres/binary"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := parseArgs(cfg.Convert, cc, args, 2)
	if err != nil {
		return err
	}
	paths, err := cfg.resPaths(args[:2])
	if err != nil {
		return err
	}
	cfg.store.Binary = &binary.Codec{Log: cfg.log()}
	if err := cfg.store.ConvertToBinary(context.Background(), paths[0], paths[1]); err != nil {
		return err
	}
	cfg.log().Info("converted", "src", paths[0], "dst", paths[1])
	return nil
}
