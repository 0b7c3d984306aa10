package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"

	"github.com/xpubwatch/xpubwatch-daemon/pkg/electrum"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey selects the Bitcoin network, either mainnet or testnet
	NetworkKey = "NETWORK"
	// ElectrumServersKey is the list of Electrum servers in host:port:ssl format, ie. electrum.blockstream.info:50002:ssl
	ElectrumServersKey = "ELECTRUM_SERVERS"
	// AllowInsecureTLSKey skips certificate verification on SSL servers. Off by default.
	AllowInsecureTLSKey = "ALLOW_INSECURE_TLS"
	// CrawlIntervalKey defines interval in milliseconds between polls of each watched address
	CrawlIntervalKey = "CRAWL_INTERVAL"
	// CrawlRequestsPerSecondKey caps the overall rate of requests towards Electrum servers
	CrawlRequestsPerSecondKey = "CRAWL_REQUESTS_PER_SECOND"
	// ExtendedKeysKey is the list of extended public keys to watch
	ExtendedKeysKey = "EXTENDED_KEYS"
	// AddressCountKey is the number of receiving addresses derived per extended key
	AddressCountKey = "ADDRESS_COUNT"
	// PriceURLKey is the endpoint used to fetch the BTC/USD exchange rate
	PriceURLKey = "PRICE_URL"
	// RateTTLKey is the lifetime of a cached exchange rate
	RateTTLKey = "RATE_TTL"

	DbLocation = "db"

	mainnetNetwork = "mainnet"
	testnetNetwork = "testnet"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("xpubwatch-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("XPUBWATCH")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(NetworkKey, mainnetNetwork)
	vip.SetDefault(AllowInsecureTLSKey, false)
	vip.SetDefault(CrawlIntervalKey, 30000)
	vip.SetDefault(CrawlRequestsPerSecondKey, 2)
	vip.SetDefault(AddressCountKey, 20)
	vip.SetDefault(PriceURLKey, "")
	vip.SetDefault(RateTTLKey, 15*time.Minute)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetNetworkParams maps the configured network name to its chain parameters.
func GetNetworkParams() *chaincfg.Params {
	if GetString(NetworkKey) == testnetNetwork {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// GetElectrumServers parses the configured server list. With no servers
// configured the embedded defaults for the selected network are returned.
func GetElectrumServers() ([]electrum.Server, error) {
	rawServers := GetStringSlice(ElectrumServersKey)
	if len(rawServers) <= 0 {
		return electrum.DefaultServers(GetNetworkParams()), nil
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

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	network := GetString(NetworkKey)
	if network != mainnetNetwork && network != testnetNetwork {
		return fmt.Errorf(
			"%s must be either %s or %s", NetworkKey, mainnetNetwork, testnetNetwork,
		)
	}

	if GetInt(CrawlIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of milliseconds", CrawlIntervalKey)
	}

	if GetInt(AddressCountKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", AddressCountKey)
	}

	if _, err := GetElectrumServers(); err != nil {
		return err
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	return makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
