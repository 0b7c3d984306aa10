package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var derive = cli.Command{
	Name:      "derive",
	Usage:     "derive the receiving addresses of an extended public key",
	ArgsUsage: "<extended key>",
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:  "start",
			Usage: "derivation index of the first address",
		},
		&cli.UintFlag{
			Name:  "count",
			Usage: "number of addresses to derive",
			Value: 20,
		},
	},
	Action: deriveAction,
}

func deriveAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "derive")
	}

	watcherSvc, err := getWatcherService(ctx)
	if err != nil {
		return err
	}

	addresses, err := watcherSvc.DeriveAddresses(
		context.Background(),
		ctx.Args().First(),
		uint32(ctx.Uint("start")),
		uint32(ctx.Uint("count")),
	)
	if err != nil {
		return err
	}

	printRespJSON(struct {
		Label     string   `json:"label"`
		Addresses []string `json:"addresses"`
	}{
		Label:     watcherSvc.LabelForKey(ctx.Args().First()),
		Addresses: addresses,
	})
	return nil
}
