package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/tres/config"
	"github.com/signadot/tres/encode"
	"github.com/signadot/tres/resource"
)

type MainConfig struct {
	Root    string `cli:"name=root desc='directory of res:// paths (default from tres.toml)'"`
	Config  string `cli:"name=config desc='tres.toml file (default: search upwards)'"`
	Verbose bool   `cli:"name=v desc='log loads and saves'"`
	Color   bool   `cli:"name=color desc='encode with color'"`

	Main *cli.Command

	project *config.Config
	store   *resource.Store
}

func (cfg *MainConfig) log() *slog.Logger {
	if cfg.Verbose {
		return verboseLog
	}
	return theLog
}

// setup reads the project configuration.  Flags win over tres.toml.
func (cfg *MainConfig) setup() error {
	var (
		c   *config.Config
		err error
	)
	if cfg.Config != "" {
		c, err = config.Load(cfg.Config)
	} else {
		c, err = config.Find(".")
	}
	if err != nil {
		return err
	}
	if cfg.Root != "" {
		abs, err := filepath.Abs(cfg.Root)
		if err != nil {
			return err
		}
		c.Root = abs
	}
	s, err := c.Store()
	if err != nil {
		return err
	}
	s.Log = cfg.log()
	cfg.project = c
	cfg.store = s
	return nil
}

// resPath maps a command line argument to a resource path.  Arguments
// with a scheme are taken as is; others are files relative to the
// working directory, which must lie under the root.
func (cfg *MainConfig) resPath(arg string) (string, error) {
	if strings.Contains(arg, "://") {
		return arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(cfg.project.RootDir(), abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not under %s", cli.ErrUsage, arg, cfg.project.RootDir())
	}
	return "res://" + filepath.ToSlash(rel), nil
}

func (cfg *MainConfig) resPaths(args []string) ([]string, error) {
	res := make([]string, len(args))
	for i, a := range args {
		p, err := cfg.resPath(a)
		if err != nil {
			return nil, err
		}
		res[i] = p
	}
	return res, nil
}

// encOpts enables color if asked, or if w is a terminal and -color was
// not given.
func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	if cfg.Color {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	return nil
}

type TypeConfig struct {
	*MainConfig

	Type *cli.Command
}

type DepsConfig struct {
	*MainConfig
	Types  bool   `cli:"name=t desc='include dependency types'"`
	Filter string `cli:"name=filter desc='boolean expression selecting dependencies'"`

	Deps *cli.Command
}

type RenameConfig struct {
	*MainConfig

	Rename *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	Convert *cli.Command
}

type ResaveConfig struct {
	*MainConfig
	Relative   bool `cli:"name=relative desc='write dependency paths relative to the file'"`
	SkipEditor bool `cli:"name=skip-editor desc='drop editor only properties'"`
	UIDs       bool `cli:"name=uids desc='assign missing uids'"`
	Check      bool `cli:"name=check desc='report files that would change without writing them'"`

	Resave *cli.Command
}

func (cfg *ResaveConfig) flags() resource.SaveFlags {
	f := cfg.project.Save
	f.RelativePaths = f.RelativePaths || cfg.Relative
	f.SkipEditorOnly = f.SkipEditorOnly || cfg.SkipEditor
	return f
}

type DumpConfig struct {
	*MainConfig

	Dump *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}
