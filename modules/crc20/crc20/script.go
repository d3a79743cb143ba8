package crc20

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
)

// ScriptToken is a single parsed opcode. Data holds the pushed bytes for push opcodes.
type ScriptToken struct {
	Opcode byte
	Data   []byte
}

// IsPush reports whether the token is a data push (OP_0 through OP_PUSHDATA4).
func (t ScriptToken) IsPush() bool {
	return t.Opcode <= txscript.OP_PUSHDATA4
}

// SmallInt returns the integer denoted by OP_1 through OP_16.
func (t ScriptToken) SmallInt() (int, bool) {
	if t.Opcode >= txscript.OP_1 && t.Opcode <= txscript.OP_16 {
		return int(t.Opcode-txscript.OP_1) + 1, true
	}
	return 0, false
}

// ScriptCodec decodes script bytecode.
type ScriptCodec interface {
	// IsPayToScriptHash reports whether script is a standard 20-byte pay-to-script-hash locking script.
	IsPayToScriptHash(script []byte) bool

	// Tokenize splits script into opcodes. Returns errs.MalformedScript if a push runs past the end of the script.
	Tokenize(script []byte) ([]ScriptToken, error)

	// DecodeScriptNum decodes a minimally encoded little-endian script number.
	// Returns errs.ParameterDecodeFailure on non-minimal or oversized input.
	DecodeScriptNum(data []byte) (int64, error)
}

// Make sure to implement the ScriptCodec interface
var _ ScriptCodec = TxScriptCodec{}

// TxScriptCodec is the ScriptCodec backed by btcd's txscript.
// Bitcoin Cash shares the push opcode encoding with Bitcoin, so the tokenizer applies as is.
type TxScriptCodec struct{}

func (TxScriptCodec) IsPayToScriptHash(script []byte) bool {
	return txscript.IsPayToScriptHash(script)
}

func (TxScriptCodec) Tokenize(script []byte) ([]ScriptToken, error) {
	tokens := make([]ScriptToken, 0, 4)
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		tokens = append(tokens, ScriptToken{
			Opcode: tokenizer.Opcode(),
			Data:   tokenizer.Data(),
		})
	}
	if err := tokenizer.Err(); err != nil {
		return nil, errors.Wrapf(errs.MalformedScript, "can't tokenize script: %v", err)
	}
	return tokens, nil
}

func (TxScriptCodec) DecodeScriptNum(data []byte) (int64, error) {
	return decodeScriptNum(data, MaxScriptNumLen)
}
