package usecase

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/modules/crc20/config"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/gaze-network/crc20-resolver/modules/crc20/datagateway"
)

const DefaultConcurrency = 8

type Usecase struct {
	indexerDg             datagateway.IndexerDataGateway
	parser                *crc20.GenesisParser
	network               common.Network
	confirmationThreshold uint32
	concurrency           int
}

func New(indexerDg datagateway.IndexerDataGateway, network common.Network, conf config.ResolverConfig) *Usecase {
	u := &Usecase{
		indexerDg:             indexerDg,
		parser:                crc20.NewGenesisParser(nil),
		network:               network,
		confirmationThreshold: conf.ConfirmationThreshold,
		concurrency:           conf.Concurrency,
	}
	if u.confirmationThreshold == 0 {
		u.confirmationThreshold = crc20.DefaultConfirmationThreshold
	}
	if u.concurrency <= 0 {
		u.concurrency = DefaultConcurrency
	}
	return u
}

func (u *Usecase) Network() common.Network {
	return u.network
}

// ColorTrust classifies tokens with the configured confirmation threshold.
func (u *Usecase) ColorTrust(tokens []*crc20.Token) map[chainhash.Hash]crc20.Trust {
	return crc20.ColorTrust(tokens, u.confirmationThreshold)
}
