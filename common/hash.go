package common

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
)

// Zero value of chainhash.Hash
var (
	ZeroHash = *utils.Must(chainhash.NewHashFromStr("0000000000000000000000000000000000000000000000000000000000000000"))
	NullHash = ZeroHash
)

// ParseTxId parses a transaction id in its display (byte-reversed) hex form.
// Unlike chainhash.NewHashFromStr, short strings are rejected.
func ParseTxId(s string) (chainhash.Hash, error) {
	if len(s) != chainhash.MaxHashStringSize {
		return chainhash.Hash{}, errors.Wrapf(errs.InvalidArgument, "txid must be %d hex characters, got %d", chainhash.MaxHashStringSize, len(s))
	}
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return chainhash.Hash{}, errors.Wrapf(errs.InvalidArgument, "invalid txid %q: %v", s, err)
	}
	return *h, nil
}
