package bchutils

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
)

// cashaddr encoding, see https://reference.cash/protocol/blockchain/encoding/cashaddr

const cashAddrCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var cashAddrCharsetRev = func() [128]int8 {
	var rev [128]int8
	for i := range rev {
		rev[i] = -1
	}
	for i, c := range cashAddrCharset {
		rev[c] = int8(i)
	}
	return rev
}()

const cashAddrChecksumLen = 8

// version byte: bits 3..6 are the type, bits 0..2 the hash size (0 = 160 bits).
const (
	cashAddrTypeP2PKH = 0
	cashAddrTypeP2SH  = 1
	cashAddrSize160   = 0
)

func polymod(values []byte) uint64 {
	c := uint64(1)
	for _, d := range values {
		c0 := byte(c >> 35)
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)
		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}

func prefixValues(prefix string) []byte {
	values := make([]byte, 0, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		values = append(values, prefix[i]&0x1f)
	}
	return append(values, 0)
}

// encodeCashAddr encodes a version byte and hash into "prefix:payload".
func encodeCashAddr(prefix string, version byte, hash []byte) string {
	payload, _ := bech32.ConvertBits(append([]byte{version}, hash...), 8, 5, true)

	checksumInput := append(prefixValues(prefix), payload...)
	checksumInput = append(checksumInput, make([]byte, cashAddrChecksumLen)...)
	mod := polymod(checksumInput)

	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + len(payload) + cashAddrChecksumLen)
	sb.WriteString(prefix)
	sb.WriteByte(':')
	for _, v := range payload {
		sb.WriteByte(cashAddrCharset[v])
	}
	for i := 0; i < cashAddrChecksumLen; i++ {
		sb.WriteByte(cashAddrCharset[(mod>>(5*(7-i)))&0x1f])
	}
	return sb.String()
}

// decodeCashAddr decodes a cashaddr string. The prefix may be omitted,
// in which case defaultPrefix is used for checksum verification.
func decodeCashAddr(address string, defaultPrefix string) (prefix string, version byte, hash []byte, err error) {
	if strings.ToLower(address) != address && strings.ToUpper(address) != address {
		return "", 0, nil, errors.Wrap(errs.InvalidArgument, "mixed case cashaddr")
	}
	address = strings.ToLower(address)

	prefix, payloadStr, found := strings.Cut(address, ":")
	if !found {
		prefix, payloadStr = defaultPrefix, address
	}
	if prefix == "" || len(payloadStr) <= cashAddrChecksumLen {
		return "", 0, nil, errors.Wrap(errs.InvalidArgument, "cashaddr too short")
	}

	values := make([]byte, 0, len(payloadStr))
	for i := 0; i < len(payloadStr); i++ {
		c := payloadStr[i]
		if c >= 128 || cashAddrCharsetRev[c] < 0 {
			return "", 0, nil, errors.Wrapf(errs.InvalidArgument, "invalid cashaddr character %q", c)
		}
		values = append(values, byte(cashAddrCharsetRev[c]))
	}

	if polymod(append(prefixValues(prefix), values...)) != 0 {
		return "", 0, nil, errors.Wrap(errs.InvalidArgument, "invalid cashaddr checksum")
	}

	data, err := bech32.ConvertBits(values[:len(values)-cashAddrChecksumLen], 5, 8, false)
	if err != nil {
		return "", 0, nil, errors.Wrapf(errs.InvalidArgument, "invalid cashaddr payload: %v", err)
	}
	if len(data) < 1 {
		return "", 0, nil, errors.Wrap(errs.InvalidArgument, "empty cashaddr payload")
	}
	return prefix, data[0], data[1:], nil
}
