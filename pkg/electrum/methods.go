package electrum

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

// ServerVersion performs server.version and returns the server software and the negotiated protocol version.
func (c *Client) ServerVersion(ctx context.Context) (software string, protocol string, err error) {
	var version []string
	if err := c.Call(ctx, &version, "server.version", c.config.ClientName, c.config.ProtocolVersion); err != nil {
		return "", "", errors.WithStack(err)
	}
	if len(version) != 2 {
		return "", "", collaboratorFailure(errors.Newf("got %d elements", len(version)), "unexpected server.version result")
	}
	return version[0], version[1], nil
}

// GetTransaction returns the verbose transaction txId.
func (c *Client) GetTransaction(ctx context.Context, txId chainhash.Hash) (*Transaction, error) {
	var tx Transaction
	if err := c.Call(ctx, &tx, "blockchain.transaction.get", txId.String(), true); err != nil {
		return nil, errors.WithStack(err)
	}
	return &tx, nil
}

// ListUnspent returns the unspent outputs of the script with the given Electrum script hash.
func (c *Client) ListUnspent(ctx context.Context, scriptHash string) ([]UnspentOutput, error) {
	var utxos []UnspentOutput
	if err := c.Call(ctx, &utxos, "blockchain.scripthash.listunspent", scriptHash); err != nil {
		return nil, errors.WithStack(err)
	}
	return utxos, nil
}

// GetHistory returns the confirmed and mempool history of the script with the given Electrum script hash.
func (c *Client) GetHistory(ctx context.Context, scriptHash string) ([]HistoryEntry, error) {
	var history []HistoryEntry
	if err := c.Call(ctx, &history, "blockchain.scripthash.get_history", scriptHash); err != nil {
		return nil, errors.WithStack(err)
	}
	return history, nil
}
