package main

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var balance = cli.Command{
	Name:      "balance",
	Usage:     "show the total BTC balance of an address or extended public key",
	ArgsUsage: "<address | extended key>",
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:  "count",
			Usage: "number of derived addresses to sum for an extended key",
			Value: 20,
		},
		&cli.BoolFlag{
			Name:  "usd",
			Usage: "also show the balance converted to USD",
		},
	},
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "balance")
	}

	watcherSvc, err := getWatcherService(ctx)
	if err != nil {
		return err
	}
	target := ctx.Args().First()

	addresses := []string{target}
	if watcherSvc.IsExtendedKey(target) {
		addresses, err = watcherSvc.DeriveAddresses(
			context.Background(), target, 0, uint32(ctx.Uint("count")),
		)
		if err != nil {
			return err
		}
	}

	balances := make([]decimal.Decimal, len(addresses))
	g, gctx := errgroup.WithContext(context.Background())
	for i, address := range addresses {
		i, address := i, address
		g.Go(func() error {
			addressBalance, err := watcherSvc.GetBalance(gctx, address)
			if err != nil {
				return err
			}
			balances[i] = addressBalance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := decimal.Zero
	for _, addressBalance := range balances {
		total = total.Add(addressBalance)
	}

	resp := struct {
		BTC string `json:"btc"`
		USD string `json:"usd,omitempty"`
	}{BTC: total.String()}

	if ctx.Bool("usd") {
		usdAmount, err := watcherSvc.ConvertToUSD(context.Background(), total, false)
		if err != nil {
			return err
		}
		resp.USD = usdAmount.StringFixed(2)
	}

	printRespJSON(resp)
	return nil
}
