package crc20

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
)

// MetaInfo is the token metadata committed to by the covenant.
//
// Layout: symbol (SymbolLength bytes) || decimals (1 byte) || name (rest).
type MetaInfo struct {
	Symbol   string
	Decimals uint8
	Name     string
}

// ExtractMetaInfo splits a metainfo blob. Invalid UTF-8 sequences are replaced with U+FFFD.
func ExtractMetaInfo(blob []byte, symbolLength uint16) (MetaInfo, error) {
	n := int(symbolLength)
	if len(blob) < n+1 {
		return MetaInfo{}, errors.Wrapf(errs.ParameterDecodeFailure, "metainfo is %d bytes, too short for a %d-byte symbol", len(blob), n)
	}
	return MetaInfo{
		Symbol:   decodeText(blob[:n]),
		Decimals: blob[n],
		Name:     decodeText(blob[n+1:]),
	}, nil
}

// Encode returns the metainfo blob and the symbol length to instantiate the covenant with.
func (m MetaInfo) Encode() ([]byte, uint16, error) {
	if len(m.Symbol) == 0 {
		return nil, 0, errors.Wrap(errs.InvalidParameter, "symbol is empty")
	}
	if len(m.Symbol) > math.MaxUint16 {
		return nil, 0, errors.Wrapf(errs.InvalidParameter, "symbol is %d bytes, max %d", len(m.Symbol), math.MaxUint16)
	}
	blob := make([]byte, 0, len(m.Symbol)+1+len(m.Name))
	blob = append(blob, m.Symbol...)
	blob = append(blob, m.Decimals)
	blob = append(blob, m.Name...)
	return blob, uint16(len(m.Symbol)), nil
}

func decodeText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
