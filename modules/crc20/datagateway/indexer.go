package datagateway

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gaze-network/crc20-resolver/core/types"
	"github.com/gaze-network/crc20-resolver/pkg/bchutils"
)

// IndexerDataGateway is a read-only view of an address/transaction indexing service.
// Any failure to reach the service or to understand its answer is returned as errs.CollaboratorFailure.
type IndexerDataGateway interface {
	// GetTransaction returns the verbose transaction. Returns errs.NotFound if the service doesn't know the transaction.
	GetTransaction(ctx context.Context, txId chainhash.Hash) (*types.Transaction, error)
	// GetUnspentOutputs returns the unspent outputs paying to address, including mempool outputs.
	GetUnspentOutputs(ctx context.Context, address bchutils.Address) ([]*types.UTXO, error)
	// GetAddressHistory returns every transaction that touched address, oldest first.
	GetAddressHistory(ctx context.Context, address bchutils.Address) ([]*types.HistoryItem, error)
}
