package common

import "github.com/btcsuite/btcd/chaincfg"

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkChipnet Network = "chipnet"
	NetworkRegtest Network = "regtest"
)

var supportedNetworks = map[Network]struct{}{
	NetworkMainnet: {},
	NetworkTestnet: {},
	NetworkChipnet: {},
	NetworkRegtest: {},
}

// Legacy (base58) address versions on Bitcoin Cash are the same as Bitcoin's.
var chainParams = map[Network]*chaincfg.Params{
	NetworkMainnet: &chaincfg.MainNetParams,
	NetworkTestnet: &chaincfg.TestNet3Params,
	NetworkChipnet: &chaincfg.TestNet3Params,
	NetworkRegtest: &chaincfg.RegressionNetParams,
}

var cashAddrPrefixes = map[Network]string{
	NetworkMainnet: "bitcoincash",
	NetworkTestnet: "bchtest",
	NetworkChipnet: "bchtest",
	NetworkRegtest: "bchreg",
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

func (n Network) ChainParams() *chaincfg.Params {
	return chainParams[n]
}

// CashAddrPrefix returns the human-readable part used by cashaddr encoding.
func (n Network) CashAddrPrefix() string {
	return cashAddrPrefixes[n]
}

func (n Network) String() string {
	return string(n)
}
