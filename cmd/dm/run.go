package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/corebook/migrate/runner"
	"github.com/corebook/migrate/store"
	"github.com/corebook/migrate/transform"
)

func run(cfg *RunConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Run.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Migration == "" && len(args) > 0 {
		cfg.Migration = args[0]
		args = args[1:]
	}
	if cfg.Migration == "" {
		return fmt.Errorf("%w: run requires a migration, see dm list", cli.ErrUsage)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	tr, err := transform.New(cfg.Migration)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	conf, err := cfg.loadConfig()
	if err != nil {
		return err
	}
	cfg.setColors(cc.Out)
	client := newClient(conf, cc)
	r := &runner.Runner{
		Source:    client,
		Sink:      client,
		Transform: tr,
		Prompt:    &runner.TerminalPrompt{In: cc.In, Out: cc.Out},
		Out:       cc.Out,
		Dataset:   conf.Dataset,
		Query:     store.Query{Limit: cfg.Limit},
		DryRun:    cfg.DryRun,
		Yes:       cfg.Yes,
		Verbose:   cfg.Verbose,
	}
	if cfg.FilterSrc != "" {
		f, err := runner.CompileFilter(cfg.FilterSrc)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		r.Filter = f
	}
	out := r.Run(context.Background())
	if out.Status == runner.StatusFailed {
		return cli.ExitCodeErr(1)
	}
	return nil
}
