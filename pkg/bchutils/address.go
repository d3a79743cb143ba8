package bchutils

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
)

// AddressType is the locking script template an address pays to.
type AddressType uint8

const (
	AddressP2PKH AddressType = iota
	AddressP2SH
)

func (t AddressType) String() string {
	switch t {
	case AddressP2PKH:
		return "p2pkh"
	case AddressP2SH:
		return "p2sh"
	default:
		return "unknown"
	}
}

// Address is a 20-byte hash address on a Bitcoin Cash network.
type Address struct {
	addrType AddressType
	hash     [20]byte
	network  common.Network
}

// NewAddressPubKeyHash returns a P2PKH address paying to the given hash160.
func NewAddressPubKeyHash(hash []byte, network common.Network) (Address, error) {
	return newAddress(AddressP2PKH, hash, network)
}

// NewAddressScriptHash returns a P2SH address paying to the given redeem script hash160.
func NewAddressScriptHash(hash []byte, network common.Network) (Address, error) {
	return newAddress(AddressP2SH, hash, network)
}

func newAddress(addrType AddressType, hash []byte, network common.Network) (Address, error) {
	if !network.IsSupported() {
		return Address{}, errors.Wrapf(errs.Unsupported, "network %q", network)
	}
	if len(hash) != 20 {
		return Address{}, errors.Wrapf(errs.InvalidArgument, "hash160 must be 20 bytes, got %d", len(hash))
	}
	addr := Address{addrType: addrType, network: network}
	copy(addr.hash[:], hash)
	return addr, nil
}

// DecodeAddress parses a cashaddr (with or without prefix) or a legacy base58 address.
func DecodeAddress(address string, network common.Network) (Address, error) {
	if !network.IsSupported() {
		return Address{}, errors.Wrapf(errs.Unsupported, "network %q", network)
	}

	if legacy, err := btcutil.DecodeAddress(address, network.ChainParams()); err == nil {
		switch legacy.(type) {
		case *btcutil.AddressPubKeyHash:
			return NewAddressPubKeyHash(legacy.ScriptAddress(), network)
		case *btcutil.AddressScriptHash:
			return NewAddressScriptHash(legacy.ScriptAddress(), network)
		}
	}

	prefix, version, hash, err := decodeCashAddr(address, network.CashAddrPrefix())
	if err != nil {
		return Address{}, errors.Wrapf(err, "can't decode address %q", address)
	}
	if prefix != network.CashAddrPrefix() {
		return Address{}, errors.Wrapf(errs.InvalidArgument, "address %q is not for network %s", address, network)
	}
	if version&0x07 != cashAddrSize160 {
		return Address{}, errors.Wrapf(errs.Unsupported, "address %q: only 160-bit hashes are supported", address)
	}
	switch version >> 3 {
	case cashAddrTypeP2PKH:
		return NewAddressPubKeyHash(hash, network)
	case cashAddrTypeP2SH:
		return NewAddressScriptHash(hash, network)
	default:
		return Address{}, errors.Wrapf(errs.Unsupported, "address %q: unsupported type %d", address, version>>3)
	}
}

// String returns the cashaddr encoding, including the network prefix.
func (a Address) String() string {
	version := byte(cashAddrTypeP2PKH << 3)
	if a.addrType == AddressP2SH {
		version = cashAddrTypeP2SH << 3
	}
	return encodeCashAddr(a.network.CashAddrPrefix(), version|cashAddrSize160, a.hash[:])
}

// Legacy returns the base58check encoding.
func (a Address) Legacy() string {
	return a.decoded().EncodeAddress()
}

func (a Address) decoded() btcutil.Address {
	var (
		decoded btcutil.Address
		err     error
	)
	switch a.addrType {
	case AddressP2SH:
		decoded, err = btcutil.NewAddressScriptHashFromHash(a.hash[:], a.network.ChainParams())
	default:
		decoded, err = btcutil.NewAddressPubKeyHash(a.hash[:], a.network.ChainParams())
	}
	if err != nil {
		// unreachable: hash length is enforced by the constructors
		panic(err)
	}
	return decoded
}

// Type returns the address type.
func (a Address) Type() AddressType {
	return a.addrType
}

// Network returns the network the address belongs to.
func (a Address) Network() common.Network {
	return a.network
}

// Hash160 returns the 20-byte hash the address pays to.
func (a Address) Hash160() [20]byte {
	return a.hash
}

// LockingScript returns the output script paying to the address.
func (a Address) LockingScript() []byte {
	script, err := txscript.PayToAddrScript(a.decoded())
	if err != nil {
		// unreachable: both address types are standard
		panic(err)
	}
	return script
}

// ElectrumScriptHash returns the script hash used by the Electrum protocol:
// sha256 of the locking script, hex encoded in reversed byte order.
func (a Address) ElectrumScriptHash() string {
	return ElectrumScriptHash(a.LockingScript())
}

// ElectrumScriptHash computes the Electrum script hash of any locking script.
func ElectrumScriptHash(lockingScript []byte) string {
	return chainhash.HashH(lockingScript).String()
}

// Equal return true if addresses are equal
func (a Address) Equal(b Address) bool {
	return a == b
}

// MarshalText implements the encoding.TextMarshaler interface.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// HexHash160 returns the hex encoded hash160.
func (a Address) HexHash160() string {
	return hex.EncodeToString(a.hash[:])
}
