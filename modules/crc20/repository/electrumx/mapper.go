package electrumx

import (
	"encoding/hex"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/core/types"
	"github.com/gaze-network/crc20-resolver/pkg/electrum"
	"github.com/shopspring/decimal"
)

const satoshiExponent = 8

// malformed marks err as a malformed answer from the indexing service.
func malformed(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), errs.CollaboratorFailure)
}

func mapTransaction(src *electrum.Transaction) (*types.Transaction, error) {
	txId, err := parseHash(src.TxId)
	if err != nil {
		return nil, malformed(err, "invalid txid %q", src.TxId)
	}

	tx := &types.Transaction{
		TxId:          *txId,
		Confirmations: src.Confirmations,
		TxIn:          make([]*types.TxIn, 0, len(src.Vin)),
		TxOut:         make([]*types.TxOut, 0, len(src.Vout)),
	}
	for i, vin := range src.Vin {
		txIn, err := mapTxIn(vin)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %s input %d", src.TxId, i)
		}
		tx.TxIn = append(tx.TxIn, txIn)
	}
	for i, vout := range src.Vout {
		txOut, err := mapTxOut(vout)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %s output %d", src.TxId, i)
		}
		tx.TxOut = append(tx.TxOut, txOut)
	}
	return tx, nil
}

func mapTxIn(src electrum.Vin) (*types.TxIn, error) {
	if src.Coinbase != "" {
		script, err := hex.DecodeString(src.Coinbase)
		if err != nil {
			return nil, malformed(err, "invalid coinbase hex")
		}
		return &types.TxIn{
			PreviousOutIndex: math.MaxUint32,
			UnlockingScript:  script,
		}, nil
	}

	prevTxId, err := parseHash(src.TxId)
	if err != nil {
		return nil, malformed(err, "invalid previous txid %q", src.TxId)
	}
	script, err := hex.DecodeString(src.ScriptSig.Hex)
	if err != nil {
		return nil, malformed(err, "invalid scriptSig hex")
	}
	return &types.TxIn{
		PreviousOutTxId:  *prevTxId,
		PreviousOutIndex: src.Vout,
		UnlockingScript:  script,
	}, nil
}

func mapTxOut(src electrum.Vout) (*types.TxOut, error) {
	value, err := parseSatoshis(src.Value.String())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	script, err := hex.DecodeString(src.ScriptPubKey.Hex)
	if err != nil {
		return nil, malformed(err, "invalid scriptPubKey hex")
	}
	txOut := &types.TxOut{
		Index:         src.N,
		Value:         value,
		LockingScript: script,
	}
	if src.TokenData != nil {
		tokenData, err := mapTokenData(src.TokenData)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		txOut.TokenData = tokenData
	}
	return txOut, nil
}

func mapTokenData(src *electrum.TokenData) (*types.TokenData, error) {
	category, err := parseHash(src.Category)
	if err != nil {
		return nil, malformed(err, "invalid token category %q", src.Category)
	}
	return &types.TokenData{
		Category: *category,
		Amount:   uint64(src.Amount),
	}, nil
}

func parseHash(s string) (*chainhash.Hash, error) {
	if len(s) != chainhash.MaxHashStringSize {
		return nil, errors.Newf("expected %d hex characters, got %d", chainhash.MaxHashStringSize, len(s))
	}
	return chainhash.NewHashFromStr(s)
}

// parseSatoshis converts a BCH amount, e.g. "0.00001", to satoshis.
func parseSatoshis(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	bch, err := decimal.NewFromString(value)
	if err != nil {
		return 0, malformed(err, "invalid output value %q", value)
	}
	sats := bch.Shift(satoshiExponent)
	if !sats.IsInteger() || sats.IsNegative() {
		return 0, malformed(errors.New("not a whole number of satoshis"), "invalid output value %q", value)
	}
	return sats.IntPart(), nil
}

func mapUnspentOutputs(src []electrum.UnspentOutput) ([]*types.UTXO, error) {
	utxos := make([]*types.UTXO, 0, len(src))
	for _, u := range src {
		txId, err := parseHash(u.TxHash)
		if err != nil {
			return nil, malformed(err, "invalid utxo tx_hash %q", u.TxHash)
		}
		utxos = append(utxos, &types.UTXO{
			TxId:   *txId,
			Index:  u.TxPos,
			Height: u.Height,
		})
	}
	return utxos, nil
}

func mapHistory(src []electrum.HistoryEntry) ([]*types.HistoryItem, error) {
	items := make([]*types.HistoryItem, 0, len(src))
	for _, h := range src {
		txId, err := parseHash(h.TxHash)
		if err != nil {
			return nil, malformed(err, "invalid history tx_hash %q", h.TxHash)
		}
		items = append(items, &types.HistoryItem{
			TxId:   *txId,
			Height: h.Height,
		})
	}
	return items, nil
}
