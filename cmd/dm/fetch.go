package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/corebook/migrate/runner"
	"github.com/corebook/migrate/store"
)

func fetch(cfg *FetchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fetch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: fetch takes no arguments", cli.ErrUsage)
	}
	conf, err := cfg.loadConfig()
	if err != nil {
		return err
	}
	client := newClient(conf, cc)
	docs, err := client.FetchAll(context.Background(), store.Query{Limit: cfg.Limit})
	if err != nil {
		return fmt.Errorf("error fetching documents: %w", err)
	}
	if cfg.FilterSrc != "" {
		f, err := runner.CompileFilter(cfg.FilterSrc)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		docs, err = f.Select(docs)
		if err != nil {
			return err
		}
	}
	for i, y := range docs {
		if i > 0 {
			fmt.Fprintln(cc.Out)
		}
		cc.Out.Write(y.IndentJSON())
		fmt.Fprintln(cc.Out)
	}
	return nil
}
