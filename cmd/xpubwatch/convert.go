package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/xpub"
)

var convert = cli.Command{
	Name:      "convert",
	Usage:     "convert an extended public key to its xpub form",
	ArgsUsage: "<extended key>",
	Action:    convertAction,
}

func convertAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "convert")
	}
	extendedKey := ctx.Args().First()

	if _, err := xpub.Decode(extendedKey); err != nil {
		return err
	}

	fmt.Println(xpub.ConvertToXpub(extendedKey))
	return nil
}
