package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/core/types"
	"github.com/gaze-network/crc20-resolver/modules/crc20/config"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/gaze-network/crc20-resolver/pkg/bchutils"
	"github.com/stretchr/testify/require"
)

var testRecipientPK = func() []byte {
	privKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x07}, 32))
	return privKey.PubKey().SerializeUncompressed()
}()

type fakeIndexer struct {
	mu           sync.Mutex
	txs          map[chainhash.Hash]*types.Transaction
	utxos        map[bchutils.Address][]*types.UTXO
	history      map[bchutils.Address][]*types.HistoryItem
	failures     map[chainhash.Hash]error
	historyErr   error
	fetchedTxIds []chainhash.Hash
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{
		txs:      make(map[chainhash.Hash]*types.Transaction),
		utxos:    make(map[bchutils.Address][]*types.UTXO),
		history:  make(map[bchutils.Address][]*types.HistoryItem),
		failures: make(map[chainhash.Hash]error),
	}
}

func (f *fakeIndexer) GetTransaction(_ context.Context, txId chainhash.Hash) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchedTxIds = append(f.fetchedTxIds, txId)
	if err := f.failures[txId]; err != nil {
		return nil, err
	}
	tx, ok := f.txs[txId]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "transaction %s", txId)
	}
	return tx, nil
}

func (f *fakeIndexer) GetUnspentOutputs(_ context.Context, address bchutils.Address) ([]*types.UTXO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.utxos[address], nil
}

func (f *fakeIndexer) GetAddressHistory(_ context.Context, address bchutils.Address) ([]*types.HistoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[address], nil
}

func (f *fakeIndexer) fetched(txId chainhash.Hash) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.fetchedTxIds {
		if id == txId {
			return true
		}
	}
	return false
}

type genesisFixture struct {
	meta          crc20.MetaInfo
	confirmations uint32
	height        int64
	supply        uint64
	mintAmount    *uint64

	// claimedSymbol is the symbol address the reveal pays to, meta.Symbol if empty.
	claimedSymbol string
	// tamper rewrites the redeem script in the reveal input after the commit output is built.
	tamper func(redeemScript []byte) []byte
}

type genesis struct {
	commitTx *types.Transaction
	revealTx *types.Transaction
}

var fixtureSeq int

// add registers a commit and a reveal transaction for fixture on the fake indexer.
func (f *fakeIndexer) add(t *testing.T, fixture genesisFixture) genesis {
	t.Helper()
	fixtureSeq++

	blob, symbolLength, err := fixture.meta.Encode()
	require.NoError(t, err)
	contract := crc20.GenesisOutputContract{RecipientPublicKey: testRecipientPK, MetaInfo: blob, SymbolLength: symbolLength}
	redeemScript, err := contract.RedeemScript()
	require.NoError(t, err)
	covenantAddress, err := contract.Address(common.NetworkMainnet)
	require.NoError(t, err)

	commitTx := &types.Transaction{
		TxId:          chainhash.HashH([]byte(fmt.Sprintf("commit-%d", fixtureSeq))),
		Confirmations: fixture.confirmations + 1,
		TxOut: []*types.TxOut{
			{Index: 0, Value: 10_000, LockingScript: covenantAddress.LockingScript()},
		},
	}

	if fixture.tamper != nil {
		redeemScript = fixture.tamper(bytes.Clone(redeemScript))
	}
	unlockingScript, err := txscript.NewScriptBuilder().
		AddData(bytes.Repeat([]byte{0x30}, 71)).
		AddData(redeemScript).
		Script()
	require.NoError(t, err)

	claimedSymbol := fixture.claimedSymbol
	if claimedSymbol == "" {
		claimedSymbol = fixture.meta.Symbol
	}
	symbolAddress, err := crc20.SymbolAddress(claimedSymbol, common.NetworkMainnet)
	require.NoError(t, err)

	revealTx := &types.Transaction{
		TxId:          chainhash.HashH([]byte(fmt.Sprintf("reveal-%d", fixtureSeq))),
		Confirmations: fixture.confirmations,
		TxIn: []*types.TxIn{
			{PreviousOutTxId: commitTx.TxId, PreviousOutIndex: 0, UnlockingScript: unlockingScript},
		},
		TxOut: []*types.TxOut{
			{Index: 0, Value: 1_000, LockingScript: symbolAddress.LockingScript(), TokenData: &types.TokenData{Category: commitTx.TxId, Amount: fixture.supply}},
			{Index: 1, Value: 5_000, LockingScript: make([]byte, 25)},
		},
	}
	if fixture.mintAmount != nil {
		revealTx.TxOut = append(revealTx.TxOut, &types.TxOut{Index: 2, LockingScript: crc20.MintAmountScript(*fixture.mintAmount)})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs[commitTx.TxId] = commitTx
	f.txs[revealTx.TxId] = revealTx
	f.utxos[symbolAddress] = append(f.utxos[symbolAddress], &types.UTXO{TxId: revealTx.TxId, Index: 0, Height: fixture.height})
	f.history[covenantAddress] = append(f.history[covenantAddress],
		&types.HistoryItem{TxId: commitTx.TxId, Height: fixture.height - 1},
		&types.HistoryItem{TxId: revealTx.TxId, Height: fixture.height},
	)
	return genesis{commitTx: commitTx, revealTx: revealTx}
}

func newTestUsecase(indexer *fakeIndexer) *Usecase {
	return New(indexer, common.NetworkMainnet, config.ResolverConfig{})
}
