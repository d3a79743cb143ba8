package crc20

import (
	"bytes"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
)

// CovenantParams are the constructor arguments of a verified GenesisOutput covenant.
type CovenantParams struct {
	RecipientPublicKey []byte
	MetaInfo           []byte
	SymbolLength       uint16
	ScriptHash         [20]byte
}

// ExtractMetaInfo decodes the symbol, decimals and name carried by the covenant.
func (p *CovenantParams) ExtractMetaInfo() (MetaInfo, error) {
	return ExtractMetaInfo(p.MetaInfo, p.SymbolLength)
}

// GenesisParser recognizes CRC20 genesis outputs.
type GenesisParser struct {
	codec ScriptCodec
}

// NewGenesisParser returns a parser using codec, or TxScriptCodec if codec is nil.
func NewGenesisParser(codec ScriptCodec) *GenesisParser {
	if codec == nil {
		codec = TxScriptCodec{}
	}
	return &GenesisParser{codec: codec}
}

var defaultGenesisParser = NewGenesisParser(nil)

// ParseGenesisOutput is GenesisParser.Parse using the txscript codec.
func ParseGenesisOutput(lockingScript, unlockingScript []byte) (*CovenantParams, error) {
	return defaultGenesisParser.Parse(lockingScript, unlockingScript)
}

// ScriptHash returns the 20-byte hash of a pay-to-script-hash locking script
// (OP_HASH160 <hash> OP_EQUAL), or errs.MalformedScript for any other script.
func (p *GenesisParser) ScriptHash(lockingScript []byte) ([20]byte, error) {
	if !p.codec.IsPayToScriptHash(lockingScript) {
		return [20]byte{}, errors.Wrap(errs.MalformedScript, "locking script is not pay-to-script-hash")
	}
	tokens, err := p.codec.Tokenize(lockingScript)
	if err != nil {
		return [20]byte{}, errors.Wrap(err, "can't tokenize locking script")
	}
	if len(tokens) != 3 || len(tokens[1].Data) != 20 {
		return [20]byte{}, errors.Wrap(errs.MalformedScript, "locking script is not pay-to-script-hash")
	}
	var scriptHash [20]byte
	copy(scriptHash[:], tokens[1].Data)
	return scriptHash, nil
}

// Parse decides whether lockingScript (a commit output) and unlockingScript (the reveal input spending it)
// form a genuine GenesisOutput covenant, and returns its parameters if so.
//
// Every non-nil error satisfies errs.IsRejection: errs.MalformedScript for shape mismatches,
// errs.ParameterDecodeFailure for undecodable arguments and errs.VerificationMismatch when
// the re-derived script hash differs from the observed one.
func (p *GenesisParser) Parse(lockingScript, unlockingScript []byte) (*CovenantParams, error) {
	scriptHash, err := p.ScriptHash(lockingScript)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// <recipientSig> <redeemScript>
	unlockingTokens, err := p.codec.Tokenize(unlockingScript)
	if err != nil {
		return nil, errors.Wrap(err, "can't tokenize unlocking script")
	}
	if len(unlockingTokens) != 2 {
		return nil, errors.Wrapf(errs.MalformedScript, "unlocking script has %d tokens, expected 2", len(unlockingTokens))
	}
	if !unlockingTokens[1].IsPush() {
		return nil, errors.Wrap(errs.MalformedScript, "redeem script is not a push")
	}
	redeemScript := unlockingTokens[1].Data
	if !bytes.HasSuffix(redeemScript, GenesisOutputBytecode) {
		return nil, errors.Wrap(errs.MalformedScript, "redeem script is not a GenesisOutput covenant")
	}

	// <symbolLength> <metainfo> <recipientPK>
	head := redeemScript[:len(redeemScript)-len(GenesisOutputBytecode)]
	args, err := p.codec.Tokenize(head)
	if err != nil {
		return nil, errors.Wrap(err, "can't tokenize constructor arguments")
	}
	if len(args) != 3 {
		return nil, errors.Wrapf(errs.MalformedScript, "redeem script has %d constructor arguments, expected 3", len(args))
	}
	symbolLengthArg, metaInfoArg, recipientPKArg := args[0], args[1], args[2]
	if !metaInfoArg.IsPush() {
		return nil, errors.Wrap(errs.MalformedScript, "metainfo is not a push")
	}
	if !recipientPKArg.IsPush() || len(recipientPKArg.Data) != RecipientPublicKeyLen {
		return nil, errors.Wrapf(errs.MalformedScript, "recipient public key must be a %d-byte push", RecipientPublicKeyLen)
	}

	symbolLength, err := decodeSymbolLength(p.codec, symbolLengthArg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	derived, err := DeriveCovenantScriptHash(recipientPKArg.Data, metaInfoArg.Data, symbolLength)
	if err != nil {
		// pk length was checked above, so this is a push the builder refuses to re-encode
		return nil, errors.Wrapf(errs.MalformedScript, "can't rebuild redeem script: %v", err)
	}
	if derived != scriptHash {
		return nil, errors.Wrapf(errs.VerificationMismatch, "derived script hash %x, observed %x", derived, scriptHash)
	}

	return &CovenantParams{
		RecipientPublicKey: slices.Clone(recipientPKArg.Data),
		MetaInfo:           slices.Clone(metaInfoArg.Data),
		SymbolLength:       symbolLength,
		ScriptHash:         scriptHash,
	}, nil
}
