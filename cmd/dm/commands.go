package main

import (
	"github.com/scott-cotton/cli"

	"github.com/corebook/migrate/config"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{ConfigPath: config.DefaultPath}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts,
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		})

	return cli.NewCommandAt(&cfg.Main, "dm").
		WithSynopsis("dm [opts] command [opts]").
		WithDescription("dm runs document migrations against a Corebook dataset.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dmMain(cfg, cc, args)
		}).
		WithSubs(
			RunCommand(cfg),
			ListCommand(cfg),
			FetchCommand(cfg))
}

func RunCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RunConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Run, "run").
		WithAliases("r").
		WithSynopsis("run -m <migration> [-filter expr] [-n] [-y] [-limit N]").
		WithDescription("run a migration: fetch, transform, preview, confirm, commit").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

func ListCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ListConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.List, "list").
		WithAliases("l").
		WithSynopsis("list").
		WithDescription("list available migrations").
		WithRun(func(cc *cli.Context, args []string) error {
			return list(cfg, cc, args)
		})
}

func FetchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FetchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fetch, "fetch").
		WithAliases("f").
		WithSynopsis("fetch [-filter expr] [-limit N]").
		WithDescription("fetch dataset documents and print them as JSON").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fetch(cfg, cc, args)
		})
}
