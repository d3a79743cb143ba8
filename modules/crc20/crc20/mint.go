package crc20

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/txscript"
	"github.com/gaze-network/crc20-resolver/core/types"
)

const (
	// mintAmountOutputIndex is the reveal output carrying OP_RETURN <8-byte amount>.
	mintAmountOutputIndex = 2
	revealOutputCount     = 3
	mintAmountScriptLen   = 10
)

// ParseMintAmount returns the per-mint amount declared by a reveal transaction,
// or nil if the reveal does not declare one.
//
// The reveal must have exactly 3 outputs and the third must be OP_RETURN OP_DATA_8 <uint64 big-endian>.
func ParseMintAmount(tx *types.Transaction) *uint64 {
	if tx == nil || len(tx.TxOut) != revealOutputCount {
		return nil
	}
	out := tx.TxOut[mintAmountOutputIndex]
	if out == nil {
		return nil
	}
	script := out.LockingScript
	if len(script) != mintAmountScriptLen || script[0] != txscript.OP_RETURN || script[1] != txscript.OP_DATA_8 {
		return nil
	}
	amount := binary.BigEndian.Uint64(script[2:])
	return &amount
}

// MintAmountScript returns the OP_RETURN locking script declaring amount.
func MintAmountScript(amount uint64) []byte {
	script := make([]byte, mintAmountScriptLen)
	script[0] = txscript.OP_RETURN
	script[1] = txscript.OP_DATA_8
	binary.BigEndian.PutUint64(script[2:], amount)
	return script
}
