package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "tres").
		WithSynopsis("tres [opts] command [opts]").
		WithDescription("tres is a tool for working with text resource and scene files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tresMain(cfg, cc, args)
		}).
		WithSubs(
			TypeCommand(cfg),
			DepsCommand(cfg),
			RenameCommand(cfg),
			ConvertCommand(cfg),
			ResaveCommand(cfg),
			DumpCommand(cfg),
			ViewCommand(cfg))
}

func TypeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypeConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Type, "type").
		WithAliases("t").
		WithSynopsis("type files...").
		WithDescription("print the class of the main object of resource files").
		WithRun(func(cc *cli.Context, args []string) error {
			return typeCmd(cfg, cc, args)
		})
}

func DepsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DepsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Deps, "deps").
		WithAliases("d").
		WithSynopsis("deps [-t] [-filter expr] files...").
		WithDescription(depsDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return deps(cfg, cc, args)
		})
}

const depsDescription = `deps lists the external dependencies of resource files without loading
them.

-filter takes a boolean expression over the variables path, type, uid and
file, for example

  tres deps -filter 'type == "Texture2D" && path startsWith "res://ui/"' a.tres
`

func RenameCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RenameConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Rename, "rename").
		WithSynopsis("rename file old=new...").
		WithDescription("rewrite dependency paths of a file in place").
		WithRun(func(cc *cli.Context, args []string) error {
			return rename(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithSynopsis("convert src dst").
		WithDescription("convert a text resource to a binary resource").
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

func ResaveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResaveConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Resave, "resave").
		WithAliases("r").
		WithSynopsis("resave [-relative] [-skip-editor] [-uids] [-check] files...").
		WithDescription("load and save resource files in canonical form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return resave(cfg, cc, args)
		})
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Dump, "dump").
		WithSynopsis("dump files...").
		WithDescription("dump the object graph of resource files as yaml").
		WithRun(func(cc *cli.Context, args []string) error {
			return dump(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [-color] files...").
		WithDescription("view resource files re-encoded, in color on a terminal").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}
