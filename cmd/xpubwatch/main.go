package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/urfave/cli/v2"

	"github.com/xpubwatch/xpubwatch-daemon/internal/core/application"
	"github.com/xpubwatch/xpubwatch-daemon/internal/infrastructure/storage/inmemory"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/hdwallet"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/rates"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "xpubwatch CLI"
	app.Usage = "Command line interface for watching extended public keys"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "network",
			Usage: "bitcoin network, either mainnet or testnet",
			Value: "mainnet",
		},
		&cli.StringSliceFlag{
			Name:  "server",
			Usage: "electrum server in host:port or host:port:ssl format, repeatable",
		},
		&cli.StringFlag{
			Name:  "picker",
			Usage: "server selection policy, either random or roundrobin",
			Value: "random",
		},
		&cli.BoolFlag{
			Name:  "insecure-tls",
			Usage: "skip certificate verification on ssl servers",
		},
		&cli.StringFlag{
			Name:  "price-url",
			Usage: "override the BTC/USD exchange rate endpoint",
		},
	}
	app.Commands = append(
		app.Commands,
		&convert,
		&derive,
		&balance,
		&history,
		&rate,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getNetworkParams(ctx *cli.Context) (*chaincfg.Params, error) {
	switch ctx.String("network") {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNet3Params, nil
	default:
		return nil, fmt.Errorf("unknown network %q", ctx.String("network"))
	}
}

func getWatcherService(ctx *cli.Context) (application.WatcherService, error) {
	network, err := getNetworkParams(ctx)
	if err != nil {
		return nil, err
	}

	servers, err := getServers(ctx, network)
	if err != nil {
		return nil, err
	}

	var picker electrum.ServerPicker
	switch ctx.String("picker") {
	case "random":
	case "roundrobin":
		picker, err = electrum.NewRoundRobinPicker(servers)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown picker %q", ctx.String("picker"))
	}

	electrumSvc, err := electrum.NewService(electrum.Opts{
		Servers:          servers,
		Picker:           picker,
		AllowInsecureTLS: ctx.Bool("insecure-tls"),
	})
	if err != nil {
		return nil, err
	}

	return application.NewWatcherService(application.WatcherServiceOpts{
		ElectrumSvc: electrumSvc,
		Deriver:     hdwallet.NewAddressDeriver(network),
		RateCache: rates.NewCache(
			rates.NewCoinGeckoSource(ctx.String("price-url")), rates.DefaultTTL,
		),
		TxRepo:  inmemory.NewTxHeightRepository(),
		Network: network,
	})
}

func getServers(
	ctx *cli.Context, network *chaincfg.Params,
) ([]electrum.Server, error) {
	rawServers := ctx.StringSlice("server")
	if len(rawServers) <= 0 {
		return electrum.DefaultServers(network), nil
	}

	servers := make([]electrum.Server, 0, len(rawServers))
	for _, rawServer := range rawServers {
		server, err := electrum.ParseServer(rawServer)
		if err != nil {
			return nil, err
		}
		servers = append(servers, server)
	}
	return servers, nil
}

func printRespJSON(resp interface{}) {
	payload, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response")
		return
	}
	fmt.Println(string(payload))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[xpubwatch] %v\n", err)
	os.Exit(1)
}
