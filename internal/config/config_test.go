package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gaze-network/crc20-resolver/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
network: chipnet
indexer:
  backend: rest
  rest:
    url: https://chipnet.fullstack.cash/v5
    timeout: 5s
  electrum:
    url: wss://chipnet.imaginary.cash:50004
resolver:
  confirmation_threshold: 6
http_server:
  port: 9090
`), 0o600))

	conf := Parse(configFile)
	assert.Equal(t, common.NetworkChipnet, conf.Network)
	assert.Equal(t, "rest", conf.Indexer.Backend)
	assert.Equal(t, "https://chipnet.fullstack.cash/v5", conf.Indexer.Rest.URL)
	assert.Equal(t, 5*time.Second, conf.Indexer.Rest.Timeout)
	assert.Equal(t, "wss://chipnet.imaginary.cash:50004", conf.Indexer.Electrum.URL)
	assert.EqualValues(t, 6, conf.Resolver.ConfirmationThreshold)
	assert.Equal(t, 9090, conf.HTTPServer.Port)

	// untouched keys keep their defaults
	assert.Equal(t, "TEXT", conf.Logger.Output)
	assert.Equal(t, 30*time.Second, conf.HTTPServer.ShutdownTimeout)

	assert.Equal(t, conf, Load())
}
