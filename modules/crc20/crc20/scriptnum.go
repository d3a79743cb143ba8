package crc20

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
)

// MaxScriptNumLen is the maximum byte length of a script number (64-bit integers since the May 2022 upgrade).
const MaxScriptNumLen = 8

// decodeScriptNum decodes a little-endian sign-magnitude script number.
// The encoding must be minimal: no trailing zero byte unless it carries the sign bit.
func decodeScriptNum(data []byte, maxLen int) (int64, error) {
	if len(data) > maxLen {
		return 0, errors.Wrapf(errs.ParameterDecodeFailure, "script number is %d bytes, max %d", len(data), maxLen)
	}
	if len(data) == 0 {
		return 0, nil
	}

	last := data[len(data)-1]
	if last&0x7f == 0 {
		if len(data) == 1 || data[len(data)-2]&0x80 == 0 {
			return 0, errors.Wrapf(errs.ParameterDecodeFailure, "script number %x is not minimally encoded", data)
		}
	}

	var v int64
	for i, b := range data {
		v |= int64(b) << uint(8*i)
	}
	if last&0x80 != 0 {
		v &^= int64(0x80) << uint(8*(len(data)-1))
		v = -v
	}
	return v, nil
}

// decodeSymbolLength decodes the symbol length constructor argument.
// 1..16 are encoded as OP_1..OP_16, anything larger as a minimal number push.
func decodeSymbolLength(codec ScriptCodec, token ScriptToken) (uint16, error) {
	if n, ok := token.SmallInt(); ok {
		return uint16(n), nil
	}
	if !token.IsPush() {
		return 0, errors.Wrapf(errs.ParameterDecodeFailure, "symbol length is opcode 0x%02x, not a push", token.Opcode)
	}
	if len(token.Data) == 0 {
		return 0, errors.Wrap(errs.ParameterDecodeFailure, "symbol length push is empty")
	}

	n, err := codec.DecodeScriptNum(token.Data)
	if err != nil {
		return 0, errors.Wrap(err, "can't decode symbol length")
	}
	if n < 1 || n > math.MaxUint16 {
		return 0, errors.Wrapf(errs.ParameterDecodeFailure, "symbol length %d out of range", n)
	}
	return uint16(n), nil
}
