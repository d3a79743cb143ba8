package electrumx

import (
	"context"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/core/types"
	"github.com/gaze-network/crc20-resolver/modules/crc20/datagateway"
	"github.com/gaze-network/crc20-resolver/pkg/bchutils"
	"github.com/gaze-network/crc20-resolver/pkg/electrum"
	"github.com/gaze-network/crc20-resolver/pkg/httpclient"
)

// Make sure to implement the IndexerDataGateway interface
var _ datagateway.IndexerDataGateway = (*RestRepository)(nil)

// RestRepository reads from a bch-api compatible REST proxy in front of an Electrum server
// (GET /electrumx/utxos/{address}, /electrumx/transactions/{address}, /electrumx/tx/data/{txid}).
type RestRepository struct {
	client *httpclient.Client
}

func NewRestRepository(client *httpclient.Client) *RestRepository {
	return &RestRepository{client: client}
}

type restResponse struct {
	Success      bool                     `json:"success"`
	Error        string                   `json:"error"`
	Details      *electrum.Transaction    `json:"details"`
	UTXOs        []electrum.UnspentOutput `json:"utxos"`
	Transactions []electrum.HistoryEntry  `json:"transactions"`
}

func (r *RestRepository) get(ctx context.Context, path string) (*restResponse, error) {
	resp, err := r.client.Get(ctx, path, httpclient.RequestOptions{})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WithStack(err)
		}
		return nil, errors.Mark(errors.Wrap(err, "request failed"), errs.CollaboratorFailure)
	}

	var body restResponse
	if err := resp.UnmarshalBody(&body); err != nil {
		return nil, malformed(err, "unexpected response from %s (status %d)", path, resp.StatusCode())
	}
	if !resp.IsSuccess() || !body.Success {
		if strings.Contains(body.Error, "No such mempool or blockchain transaction") {
			return nil, errors.Wrapf(errs.NotFound, "%s", body.Error)
		}
		return nil, malformed(errors.Newf("status %d: %s", resp.StatusCode(), body.Error), "request to %s failed", path)
	}
	return &body, nil
}

func (r *RestRepository) GetTransaction(ctx context.Context, txId chainhash.Hash) (*types.Transaction, error) {
	body, err := r.get(ctx, fmt.Sprintf("/electrumx/tx/data/%s", txId))
	if err != nil {
		return nil, errors.Wrapf(err, "can't get transaction %s", txId)
	}
	if body.Details == nil {
		return nil, malformed(errors.New("missing details"), "can't get transaction %s", txId)
	}
	return mapTransaction(body.Details)
}

func (r *RestRepository) GetUnspentOutputs(ctx context.Context, address bchutils.Address) ([]*types.UTXO, error) {
	body, err := r.get(ctx, fmt.Sprintf("/electrumx/utxos/%s", address))
	if err != nil {
		return nil, errors.Wrapf(err, "can't list unspent outputs of %s", address)
	}
	return mapUnspentOutputs(body.UTXOs)
}

func (r *RestRepository) GetAddressHistory(ctx context.Context, address bchutils.Address) ([]*types.HistoryItem, error) {
	body, err := r.get(ctx, fmt.Sprintf("/electrumx/transactions/%s", address))
	if err != nil {
		return nil, errors.Wrapf(err, "can't get history of %s", address)
	}
	return mapHistory(body.Transactions)
}
