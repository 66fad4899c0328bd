package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/corebook/migrate/transform"
)

func list(cfg *ListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: list takes no arguments", cli.ErrUsage)
	}
	for _, d := range transform.Definitions() {
		fmt.Fprintf(cc.Out, "%-12s %s\n", d.Name, d.Description)
	}
	return nil
}
