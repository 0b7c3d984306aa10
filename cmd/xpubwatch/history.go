package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var history = cli.Command{
	Name:      "history",
	Usage:     "show the transaction history of an address",
	ArgsUsage: "<address>",
	Action:    historyAction,
}

func historyAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "history")
	}

	watcherSvc, err := getWatcherService(ctx)
	if err != nil {
		return err
	}

	records, err := watcherSvc.GetHistory(context.Background(), ctx.Args().First())
	if err != nil {
		return err
	}

	type historyEntry struct {
		TxHash    string `json:"tx_hash"`
		Height    int64  `json:"height"`
		Confirmed bool   `json:"confirmed"`
	}
	entries := make([]historyEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyEntry{
			TxHash:    record.TxHash,
			Height:    record.Height,
			Confirmed: record.Confirmed(),
		})
	}

	printRespJSON(entries)
	return nil
}
