package usecase

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/core/types"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/gaze-network/crc20-resolver/pkg/logger"
	"github.com/gaze-network/crc20-resolver/pkg/logger/slogx"
	cstream "github.com/planxnx/concurrent-stream"
	"github.com/samber/lo"
)

type revealResult struct {
	token *crc20.Token
	err   error
}

// ResolveBySymbol returns every verified token claiming symbol, in the order the indexer lists their reveals.
// Each reveal pays its first output to the symbol address, see crc20.SymbolAddress.
func (u *Usecase) ResolveBySymbol(ctx context.Context, symbol string) ([]*crc20.Token, error) {
	if symbol == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "symbol is empty")
	}
	ctx = logger.WithContext(ctx, slogx.String("symbol", symbol))

	address, err := crc20.SymbolAddress(symbol, u.network)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	utxos, err := u.indexerDg.GetUnspentOutputs(ctx, address)
	if err != nil {
		return nil, errors.Wrapf(err, "can't list unspent outputs of %s", address)
	}

	reveals := lo.UniqBy(lo.Filter(utxos, func(utxo *types.UTXO, _ int) bool {
		return utxo.Index == 0
	}), func(utxo *types.UTXO) chainhash.Hash {
		return utxo.TxId
	})
	if len(reveals) == 0 {
		return []*crc20.Token{}, nil
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan revealResult)
	stream := cstream.NewStream(streamCtx, u.concurrency, out)

	// Wait for stream to finish and close out channel
	go func() {
		defer close(out)
		_ = stream.Wait()
	}()

	go func() {
		defer stream.Close()
		for _, utxo := range reveals {
			select {
			case <-streamCtx.Done():
				return
			default:
				stream.Go(func() revealResult {
					token, err := u.resolveReveal(streamCtx, utxo, symbol)
					return revealResult{token: token, err: err}
				})
			}
		}
	}()

	tokens := make([]*crc20.Token, 0, len(reveals))
	var firstErr error
	for result := range out {
		switch {
		case firstErr != nil:
			// drain
		case result.err != nil:
			firstErr = result.err
			cancel()
		case result.token != nil:
			tokens = append(tokens, result.token)
		}
	}
	if firstErr != nil {
		return nil, errors.WithStack(firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return lo.UniqBy(tokens, func(token *crc20.Token) [2]chainhash.Hash {
		return [2]chainhash.Hash{token.Category, token.RevealTxId}
	}), nil
}

func (u *Usecase) resolveReveal(ctx context.Context, utxo *types.UTXO, symbol string) (*crc20.Token, error) {
	revealTx, err := u.getReferencedTransaction(ctx, utxo.TxId)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	token, err := u.scanReveal(ctx, revealTx, revealFilter{symbol: symbol})
	if err != nil {
		return nil, errors.Wrapf(err, "can't scan reveal transaction %s", utxo.TxId)
	}
	if token == nil {
		return nil, nil
	}
	token.RevealHeight = revealHeight(utxo.Height)
	return token, nil
}
