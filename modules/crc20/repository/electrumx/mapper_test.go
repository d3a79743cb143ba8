package electrumx

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/core/types"
	"github.com/gaze-network/crc20-resolver/pkg/electrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTxId     = "3b1b4d5a0cf9a3e0a06f0cbb5c2f8c0f1a2b3c4d5e6f708192a3b4c5d6e7f809"
	testPrevTxId = "00000000000000000000000000000000000000000000000000000000000000aa"
)

func TestMapTransaction(t *testing.T) {
	var src electrum.Transaction
	require.NoError(t, json.Unmarshal([]byte(`{
		"txid": "`+testTxId+`",
		"confirmations": 3,
		"vin": [
			{"txid": "`+testPrevTxId+`", "vout": 0, "scriptSig": {"hex": "0151"}},
			{"coinbase": "03a0bb0d"}
		],
		"vout": [
			{"value": 0.00001, "n": 0, "scriptPubKey": {"hex": "a914"}, "tokenData": {"category": "`+testPrevTxId+`", "amount": "21000000"}},
			{"value": 12.5, "n": 1, "scriptPubKey": {"hex": "6a"}}
		]
	}`), &src))

	tx, err := mapTransaction(&src)
	require.NoError(t, err)

	prevTxId, _ := chainhash.NewHashFromStr(testPrevTxId)
	assert.Equal(t, testTxId, tx.TxId.String())
	assert.EqualValues(t, 3, tx.Confirmations)
	assert.Equal(t, []*types.TxIn{
		{PreviousOutTxId: *prevTxId, PreviousOutIndex: 0, UnlockingScript: []byte{0x01, 0x51}},
		{PreviousOutIndex: math.MaxUint32, UnlockingScript: []byte{0x03, 0xa0, 0xbb, 0x0d}},
	}, tx.TxIn)
	assert.Equal(t, []*types.TxOut{
		{Index: 0, Value: 1000, LockingScript: []byte{0xa9, 0x14}, TokenData: &types.TokenData{Category: *prevTxId, Amount: 21_000_000}},
		{Index: 1, Value: 1_250_000_000, LockingScript: []byte{0x6a}},
	}, tx.TxOut)
	assert.True(t, tx.TxIn[0].Spends(*prevTxId, 0))
}

func TestMapTransactionMalformed(t *testing.T) {
	specs := map[string]electrum.Transaction{
		"short_txid": {TxId: "aa"},
		"bad_script_sig": {TxId: testTxId, Vin: []electrum.Vin{
			{TxId: testPrevTxId, ScriptSig: electrum.ScriptSig{Hex: "zz"}},
		}},
		"bad_script_pubkey": {TxId: testTxId, Vout: []electrum.Vout{
			{Value: "1", ScriptPubKey: electrum.ScriptPubKey{Hex: "0"}},
		}},
		"bad_category": {TxId: testTxId, Vout: []electrum.Vout{
			{Value: "1", TokenData: &electrum.TokenData{Category: "xyz"}},
		}},
		"fractional_satoshi": {TxId: testTxId, Vout: []electrum.Vout{
			{Value: "0.000000001"},
		}},
		"negative_value": {TxId: testTxId, Vout: []electrum.Vout{
			{Value: "-1"},
		}},
	}

	for name, src := range specs {
		t.Run(name, func(t *testing.T) {
			_, err := mapTransaction(&src)
			assert.True(t, errors.Is(err, errs.CollaboratorFailure), "%+v", err)
		})
	}
}

func TestParseSatoshis(t *testing.T) {
	specs := map[string]int64{
		"":           0,
		"0":          0,
		"0.00000546": 546,
		"1":          100_000_000,
		"21000000":   2_100_000_000_000_000,
	}
	for value, expected := range specs {
		t.Run(value, func(t *testing.T) {
			actual, err := parseSatoshis(value)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		})
	}
}
