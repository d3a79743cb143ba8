package crc20

import (
	"encoding/hex"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/pkg/bchutils"
)

// RecipientPublicKeyLen is the length of an uncompressed secp256k1 public key.
const RecipientPublicKeyLen = 65

// GenesisOutputBytecode is the compiled body of the GenesisOutput covenant
//
//	contract GenesisOutput(pubkey recipientPK, bytes metainfo, int symbolLength) {
//	    function reveal(sig recipientSig) {
//	        require(checkSig(recipientSig, recipientPK));
//	        bytes symbol = metainfo.split(symbolLength)[0];
//	        bytes25 lockingCode = new LockingBytecodeP2PKH(hash160(symbol));
//	        require(tx.outputs[0].lockingBytecode == lockingCode);
//	    }
//	}
//
// A redeem script is the constructor arguments pushed in reverse order followed by this bytecode.
var GenesisOutputBytecode = utils.Must(hex.DecodeString("537a7cad7c7f75a90376a9147c7e0288ac7e00cd87"))

// GenesisOutputContract is an instance of the GenesisOutput covenant.
type GenesisOutputContract struct {
	RecipientPublicKey []byte
	MetaInfo           []byte
	SymbolLength       uint16
}

// RedeemScript returns the canonical redeem script of the contract.
func (c GenesisOutputContract) RedeemScript() ([]byte, error) {
	if len(c.RecipientPublicKey) != RecipientPublicKeyLen {
		return nil, errors.Wrapf(errs.InvalidParameter, "recipient public key must be %d bytes, got %d", RecipientPublicKeyLen, len(c.RecipientPublicKey))
	}

	head, err := txscript.NewScriptBuilder().
		AddInt64(int64(c.SymbolLength)).
		AddData(c.MetaInfo).
		AddData(c.RecipientPublicKey).
		Script()
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidParameter, "can't build redeem script: %v", err)
	}

	script := make([]byte, 0, len(head)+len(GenesisOutputBytecode))
	script = append(script, head...)
	script = append(script, GenesisOutputBytecode...)
	return script, nil
}

// ScriptHash returns hash160 of the redeem script, the payload of the P2SH locking script.
func (c GenesisOutputContract) ScriptHash() ([20]byte, error) {
	script, err := c.RedeemScript()
	if err != nil {
		return [20]byte{}, errors.WithStack(err)
	}
	var hash [20]byte
	copy(hash[:], btcutil.Hash160(script))
	return hash, nil
}

// Address returns the P2SH deposit address of the contract.
func (c GenesisOutputContract) Address(network common.Network) (bchutils.Address, error) {
	hash, err := c.ScriptHash()
	if err != nil {
		return bchutils.Address{}, errors.WithStack(err)
	}
	addr, err := bchutils.NewAddressScriptHash(hash[:], network)
	if err != nil {
		return bchutils.Address{}, errors.WithStack(err)
	}
	return addr, nil
}

// DeriveCovenantScriptHash computes the P2SH script hash of the GenesisOutput covenant instantiated with the given parameters.
func DeriveCovenantScriptHash(recipientPK []byte, metaInfo []byte, symbolLength uint16) ([20]byte, error) {
	return GenesisOutputContract{
		RecipientPublicKey: recipientPK,
		MetaInfo:           metaInfo,
		SymbolLength:       symbolLength,
	}.ScriptHash()
}

// NormalizeRecipientPublicKey parses a compressed or uncompressed secp256k1 public key
// and returns its uncompressed serialization, the form the covenant commits to.
func NormalizeRecipientPublicKey(pubKey []byte) ([]byte, error) {
	key, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidParameter, "invalid recipient public key: %v", err)
	}
	return key.SerializeUncompressed(), nil
}
