package crc20

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/pkg/bchutils"
)

// SymbolAddress returns the P2PKH address every reveal of symbol must pay its first output to.
// It is the address of hash160(symbol), with no known private key.
func SymbolAddress(symbol string, network common.Network) (bchutils.Address, error) {
	addr, err := bchutils.NewAddressPubKeyHash(btcutil.Hash160([]byte(symbol)), network)
	if err != nil {
		return bchutils.Address{}, errors.WithStack(err)
	}
	return addr, nil
}
