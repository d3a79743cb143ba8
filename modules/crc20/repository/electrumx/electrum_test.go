package electrumx

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/pkg/bchutils"
	"github.com/gaze-network/crc20-resolver/pkg/electrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElectrumClient struct {
	txs          map[chainhash.Hash]*electrum.Transaction
	unspent      map[string][]electrum.UnspentOutput
	history      map[string][]electrum.HistoryEntry
	err          error
	scriptHashes []string
}

func (f *fakeElectrumClient) GetTransaction(_ context.Context, txId chainhash.Hash) (*electrum.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	tx, ok := f.txs[txId]
	if !ok {
		return nil, errors.Mark(&electrum.RPCError{Code: 2, Message: "No such mempool or blockchain transaction"}, errs.CollaboratorFailure)
	}
	return tx, nil
}

func (f *fakeElectrumClient) ListUnspent(_ context.Context, scriptHash string) ([]electrum.UnspentOutput, error) {
	f.scriptHashes = append(f.scriptHashes, scriptHash)
	return f.unspent[scriptHash], f.err
}

func (f *fakeElectrumClient) GetHistory(_ context.Context, scriptHash string) ([]electrum.HistoryEntry, error) {
	f.scriptHashes = append(f.scriptHashes, scriptHash)
	return f.history[scriptHash], f.err
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	address, err := bchutils.DecodeAddress("bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a", common.NetworkMainnet)
	require.NoError(t, err)
	txId, err := chainhash.NewHashFromStr(testTxId)
	require.NoError(t, err)

	client := &fakeElectrumClient{
		txs: map[chainhash.Hash]*electrum.Transaction{
			*txId: {TxId: testTxId, Confirmations: 1},
		},
		unspent: map[string][]electrum.UnspentOutput{
			address.ElectrumScriptHash(): {{TxHash: testTxId, TxPos: 0, Height: 800_000}},
		},
		history: map[string][]electrum.HistoryEntry{
			address.ElectrumScriptHash(): {{TxHash: testTxId, Height: 800_000}, {TxHash: testPrevTxId, Height: 0}},
		},
	}
	repo := NewRepository(client)

	t.Run("get_transaction", func(t *testing.T) {
		tx, err := repo.GetTransaction(ctx, *txId)
		require.NoError(t, err)
		assert.Equal(t, *txId, tx.TxId)
	})

	t.Run("unknown_transaction_is_not_found", func(t *testing.T) {
		_, err := repo.GetTransaction(ctx, chainhash.Hash{0x01})
		assert.ErrorIs(t, err, errs.NotFound)
		assert.False(t, errors.Is(err, errs.CollaboratorFailure))
	})

	t.Run("unspent_outputs_by_script_hash", func(t *testing.T) {
		utxos, err := repo.GetUnspentOutputs(ctx, address)
		require.NoError(t, err)
		require.Len(t, utxos, 1)
		assert.Equal(t, *txId, utxos[0].TxId)
		assert.EqualValues(t, 800_000, utxos[0].Height)
	})

	t.Run("history_keeps_server_order", func(t *testing.T) {
		history, err := repo.GetAddressHistory(ctx, address)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, *txId, history[0].TxId)
		assert.Equal(t, testPrevTxId, history[1].TxId.String())
	})

	t.Run("client_failure_is_propagated", func(t *testing.T) {
		failing := NewRepository(&fakeElectrumClient{err: errors.Mark(errors.New("connection reset"), errs.CollaboratorFailure)})
		_, err := failing.GetAddressHistory(ctx, address)
		assert.True(t, errors.Is(err, errs.CollaboratorFailure), "%+v", err)
		_, err = failing.GetTransaction(ctx, *txId)
		assert.True(t, errors.Is(err, errs.CollaboratorFailure), "%+v", err)
	})
}
