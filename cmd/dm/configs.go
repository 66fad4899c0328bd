package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/corebook/migrate/config"
)

type MainConfig struct {
	Color      bool   `cli:"name=color desc='force color output'"`
	NoColor    bool   `cli:"name=nocolor desc='disable color output'"`
	ConfigPath string `cli:"name=c aliases=config desc='config file (default corebook.yml)'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// setColors resolves the color flags; with neither flag set, color
// follows whether the output is a terminal.
func (cfg *MainConfig) setColors(w io.Writer) {
	switch {
	case cfg.NoColor:
		color.NoColor = true
	case cfg.Color:
		color.NoColor = false
	default:
		f, ok := w.(*os.File)
		color.NoColor = !ok || !isatty.IsTerminal(f.Fd())
	}
}

func (cfg *MainConfig) loadConfig() (*config.Config, error) {
	return config.Load(cfg.ConfigPath)
}

type RunConfig struct {
	*MainConfig

	Migration string `cli:"name=m aliases=migration desc='migration to run, see dm list'"`
	FilterSrc string `cli:"name=filter desc='select documents by expression'"`
	Limit     int    `cli:"name=limit desc='fetch at most N documents'"`
	DryRun    bool   `cli:"name=n aliases=dry-run desc='preview only, commit nothing'"`
	Yes       bool   `cli:"name=y aliases=yes desc='skip the confirmation prompt'"`
	Verbose   bool   `cli:"name=v aliases=verbose desc='show per-document diffs in the preview'"`

	Run *cli.Command
}

type ListConfig struct {
	*MainConfig

	List *cli.Command
}

type FetchConfig struct {
	*MainConfig

	FilterSrc string `cli:"name=filter desc='select documents by expression'"`
	Limit     int    `cli:"name=limit desc='fetch at most N documents'"`

	Fetch *cli.Command
}
