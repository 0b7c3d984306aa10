package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"

	"github.com/xpubwatch/xpubwatch-daemon/internal/config"
	"github.com/xpubwatch/xpubwatch-daemon/internal/core/application"
	"github.com/xpubwatch/xpubwatch-daemon/internal/core/domain"
	dbbadger "github.com/xpubwatch/xpubwatch-daemon/internal/infrastructure/storage/badger"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/crawler"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/hdwallet"
	"github.com/xpubwatch/xpubwatch-daemon/pkg/rates"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	network := config.GetNetworkParams()

	servers, err := config.GetElectrumServers()
	if err != nil {
		log.WithError(err).Fatal("invalid electrum server list")
	}

	electrumSvc, err := electrum.NewService(electrum.Opts{
		Servers:          servers,
		AllowInsecureTLS: config.GetBool(config.AllowInsecureTLSKey),
	})
	if err != nil {
		log.WithError(err).Fatal("error while creating electrum service")
	}

	txRepo, err := dbbadger.NewTxHeightRepository(
		filepath.Join(config.GetDatadir(), config.DbLocation), nil,
	)
	if err != nil {
		log.WithError(err).Fatal("error while opening tx height db")
	}
	defer func() {
		if closer, ok := txRepo.(io.Closer); ok {
			closer.Close()
		}
	}()

	rateCache := rates.NewCache(
		rates.NewCoinGeckoSource(config.GetString(config.PriceURLKey)),
		config.GetDuration(config.RateTTLKey),
	)

	watcherSvc, err := application.NewWatcherService(application.WatcherServiceOpts{
		ElectrumSvc: electrumSvc,
		Deriver:     hdwallet.NewAddressDeriver(network),
		RateCache:   rateCache,
		TxRepo:      txRepo,
		Network:     network,
	})
	if err != nil {
		log.WithError(err).Fatal("error while creating watcher service")
	}

	crawlerSvc := crawler.NewService(crawler.Opts{
		ElectrumSvc:            electrumSvc,
		IntervalInMilliseconds: config.GetInt(config.CrawlIntervalKey),
		RequestsPerSecond:      config.GetInt(config.CrawlRequestsPerSecondKey),
		ErrorHandler: func(err error) {
			log.WithError(err).Warn("crawler error")
		},
	})

	if err := watchConfiguredAccounts(watcherSvc, crawlerSvc, network); err != nil {
		log.WithError(err).Fatal("error while registering watched accounts")
	}

	log.Info("daemon started")

	go crawlerSvc.Start()
	go listenToEvents(watcherSvc, crawlerSvc)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	crawlerSvc.Stop()
	log.Info("exiting")
}

// watchConfiguredAccounts derives the receiving address window of every
// configured extended key and registers one observable per address.
func watchConfiguredAccounts(
	watcherSvc application.WatcherService,
	crawlerSvc crawler.Service,
	network *chaincfg.Params,
) error {
	addressCount := uint32(config.GetInt(config.AddressCountKey))

	for _, extendedKey := range config.GetStringSlice(config.ExtendedKeysKey) {
		account, err := domain.NewAccount(extendedKey, addressCount)
		if err != nil {
			return err
		}

		addresses, err := watcherSvc.DeriveAddresses(
			context.Background(), account.ExtendedKey, 0, account.AddressCount,
		)
		if err != nil {
			return err
		}

		for _, address := range addresses {
			scripthash, err := electrum.AddressToScripthash(address, network)
			if err != nil {
				return err
			}
			crawlerSvc.AddObservable(&crawler.AddressObservable{
				Address:    address,
				Scripthash: scripthash,
			})
		}

		log.Infof(
			"watching %s with %d addresses", account.Label, len(addresses),
		)
	}
	return nil
}

func listenToEvents(
	watcherSvc application.WatcherService, crawlerSvc crawler.Service,
) {
	for event := range crawlerSvc.GetEventChannel() {
		switch e := event.(type) {
		case crawler.AddressHistoryEvent:
			deltas, err := watcherSvc.ReconcileHistory(context.Background(), e.History)
			if err != nil {
				// A partial batch still carries the deltas persisted
				// before the failure.
				log.WithError(err).Warn("error while reconciling history")
			}
			for _, delta := range deltas {
				for _, status := range delta.Statuses {
					log.WithFields(log.Fields{
						"address": e.Address,
						"tx":      delta.TxHash,
						"height":  delta.Height,
					}).Infof("transaction %s", status)
				}
			}
		case crawler.QuitEvent:
			return
		}
	}
}
