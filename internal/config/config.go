package config

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	crc20config "github.com/gaze-network/crc20-resolver/modules/crc20/config"
	"github.com/gaze-network/crc20-resolver/pkg/electrum"
	"github.com/gaze-network/crc20-resolver/pkg/logger"
	"github.com/gaze-network/crc20-resolver/pkg/logger/slogx"
	"github.com/gaze-network/crc20-resolver/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit   bool
	mu       sync.Mutex
	configMu sync.RWMutex
	config   = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		Network: common.NetworkMainnet,
		Indexer: crc20config.IndexerConfig{
			Backend: "electrum",
			Electrum: electrum.Config{
				URL:            "wss://bch.imaginary.cash:50004",
				RequestTimeout: electrum.DefaultRequestTimeout,
				PingInterval:   electrum.DefaultPingInterval,
			},
		},
		Resolver: crc20config.ResolverConfig{
			ConfirmationThreshold: 10,
			Concurrency:           8,
		},
		HTTPServer: HTTPServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
	}
)

type Config struct {
	Logger     logger.Config              `mapstructure:"logger"`
	Network    common.Network             `mapstructure:"network"`
	Indexer    crc20config.IndexerConfig  `mapstructure:"indexer"`
	Resolver   crc20config.ResolverConfig `mapstructure:"resolver"`
	HTTPServer HTTPServerConfig           `mapstructure:"http_server"`
}

type HTTPServerConfig struct {
	Port            int                  `mapstructure:"port"`
	ShutdownTimeout time.Duration        `mapstructure:"shutdown_timeout"`
	ClientIPHeader  string               `mapstructure:"client_ip_header"` // e.g. CF-Connecting-IP
	Logger          requestlogger.Config `mapstructure:"logger"`
}

// Parse reads configFile (or ./config.yaml if empty) and the environment, e.g. INDEXER_ELECTRUM_URL.
// A missing config file is not an error.
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slogx.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.DebugContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	configMu.Lock()
	defer configMu.Unlock()
	if err := viper.Unmarshal(config); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *config
}

// Load returns the config, parsing the default sources on first use.
func Load() Config {
	mu.Lock()
	defer mu.Unlock()

	if !isInit {
		return parse()
	}

	configMu.RLock()
	defer configMu.RUnlock()
	return *config
}

// BindPFlag binds a command line flag to a config key, so the flag overrides it when set.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slogx.String("package", "config"), slogx.Error(err))
	}
}
