package main

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var rate = cli.Command{
	Name:   "rate",
	Usage:  "show the current BTC/USD exchange rate",
	Action: rateAction,
}

func rateAction(ctx *cli.Context) error {
	watcherSvc, err := getWatcherService(ctx)
	if err != nil {
		return err
	}

	usdAmount, err := watcherSvc.ConvertToUSD(
		context.Background(), decimal.NewFromInt(1), true,
	)
	if err != nil {
		return err
	}

	printRespJSON(struct {
		USDPerBTC string `json:"usd_per_btc"`
	}{USDPerBTC: usdAmount.StringFixed(2)})
	return nil
}
