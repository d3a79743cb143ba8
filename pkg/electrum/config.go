package electrum

import "time"

type Config struct {
	// URL is the websocket endpoint of the server, e.g. wss://electrum.imaginary.cash:50004
	URL string `mapstructure:"url"`

	// ClientName and ProtocolVersion are sent in the server.version handshake.
	ClientName      string `mapstructure:"client_name"`
	ProtocolVersion string `mapstructure:"protocol_version"`

	// RequestTimeout bounds each request, on top of the caller's context. Zero disables it.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// PingInterval is the interval between websocket ping frames. Zero disables pings.
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

const (
	DefaultClientName      = "crc20-resolver"
	DefaultProtocolVersion = "1.4"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultPingInterval    = 30 * time.Second

	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

func (c Config) withDefaults() Config {
	if c.ClientName == "" {
		c.ClientName = DefaultClientName
	}
	if c.ProtocolVersion == "" {
		c.ProtocolVersion = DefaultProtocolVersion
	}
	return c
}
