package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/corebook/migrate/config"
	"github.com/corebook/migrate/store"
)

func dmMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Color && cfg.NoColor {
		return fmt.Errorf("%w: -color and -nocolor are mutually exclusive", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// newClient builds the dataset API client. The token resolves lazily on
// the first write: environment first, then the config file, then an
// interactive prompt.
func newClient(conf *config.Config, cc *cli.Context) *store.Client {
	return store.NewClient(store.ClientConfig{
		Host:       conf.API.Host,
		APIVersion: conf.API.Version,
		Project:    conf.Project,
		Dataset:    conf.Dataset,
		Tokens: store.Chain{
			store.EnvToken{},
			store.StaticToken(conf.Token),
			&store.PromptToken{Project: conf.Project, In: cc.In, Out: cc.Out},
		},
	})
}
