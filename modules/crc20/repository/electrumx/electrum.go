package electrumx

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/core/types"
	"github.com/gaze-network/crc20-resolver/modules/crc20/datagateway"
	"github.com/gaze-network/crc20-resolver/pkg/bchutils"
	"github.com/gaze-network/crc20-resolver/pkg/electrum"
)

// ElectrumClient is the subset of *electrum.Client the repository uses.
type ElectrumClient interface {
	GetTransaction(ctx context.Context, txId chainhash.Hash) (*electrum.Transaction, error)
	ListUnspent(ctx context.Context, scriptHash string) ([]electrum.UnspentOutput, error)
	GetHistory(ctx context.Context, scriptHash string) ([]electrum.HistoryEntry, error)
}

// Make sure to implement the IndexerDataGateway interface
var _ datagateway.IndexerDataGateway = (*Repository)(nil)

// Repository reads from an Electrum (Fulcrum) server.
type Repository struct {
	client ElectrumClient
}

func NewRepository(client ElectrumClient) *Repository {
	return &Repository{client: client}
}

func (r *Repository) GetTransaction(ctx context.Context, txId chainhash.Hash) (*types.Transaction, error) {
	tx, err := r.client.GetTransaction(ctx, txId)
	if err != nil {
		var rpcErr *electrum.RPCError
		if errors.As(err, &rpcErr) && rpcErr.IsTxNotFound() {
			return nil, errors.Wrapf(errs.NotFound, "transaction %s", txId)
		}
		return nil, errors.Wrapf(err, "can't get transaction %s", txId)
	}
	return mapTransaction(tx)
}

func (r *Repository) GetUnspentOutputs(ctx context.Context, address bchutils.Address) ([]*types.UTXO, error) {
	utxos, err := r.client.ListUnspent(ctx, address.ElectrumScriptHash())
	if err != nil {
		return nil, errors.Wrapf(err, "can't list unspent outputs of %s", address)
	}
	return mapUnspentOutputs(utxos)
}

func (r *Repository) GetAddressHistory(ctx context.Context, address bchutils.Address) ([]*types.HistoryItem, error) {
	history, err := r.client.GetHistory(ctx, address.ElectrumScriptHash())
	if err != nil {
		return nil, errors.Wrapf(err, "can't get history of %s", address)
	}
	return mapHistory(history)
}
