package config

import (
	"github.com/gaze-network/crc20-resolver/pkg/electrum"
	"github.com/gaze-network/crc20-resolver/pkg/httpclient"
)

type IndexerConfig struct {
	Backend  string          `mapstructure:"backend"` // Indexing service to read chain data from, `electrum` | `rest`
	Electrum electrum.Config `mapstructure:"electrum"`
	Rest     RestConfig      `mapstructure:"rest"`
}

type RestConfig struct {
	URL               string `mapstructure:"url"` // e.g. https://api.fullstack.cash/v5
	httpclient.Config `mapstructure:",squash"`
}

type ResolverConfig struct {
	ConfirmationThreshold uint32 `mapstructure:"confirmation_threshold"` // Confirmations a reveal needs to become the canonical token of its symbol.
	Concurrency           int    `mapstructure:"concurrency"`            // Reveal transactions evaluated in parallel per symbol lookup.
}
