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
)

// revealFilter restricts which genesis a reveal scan accepts. Zero values match anything.
type revealFilter struct {
	symbol   string
	category *chainhash.Hash
}

// scanReveal looks for a verified CRC20 genesis in a reveal transaction: an output carrying native tokens
// of some category whose reveal input spends output #0 of that category's commit transaction through
// a genuine GenesisOutput covenant. Returns nil if there is none.
func (u *Usecase) scanReveal(ctx context.Context, revealTx *types.Transaction, filter revealFilter) (*crc20.Token, error) {
	for _, txOut := range revealTx.TxOut {
		if txOut.TokenData == nil {
			continue
		}
		category := txOut.TokenData.Category
		if filter.category != nil && category != *filter.category {
			continue
		}

		for _, txIn := range revealTx.TxIn {
			if !txIn.Spends(category, 0) {
				continue
			}

			ctx := logger.WithContext(ctx,
				slogx.Stringer("category", category),
				slogx.Stringer("reveal_tx", revealTx.TxId),
			)
			meta, err := u.verifyGenesis(ctx, category, txIn.UnlockingScript)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			if meta == nil {
				continue
			}
			if filter.symbol != "" && meta.Symbol != filter.symbol {
				logger.DebugContext(ctx, "reveal declares another symbol", slogx.String("symbol", meta.Symbol))
				continue
			}

			return &crc20.Token{
				Symbol:              meta.Symbol,
				Name:                meta.Name,
				Decimals:            meta.Decimals,
				Category:            category,
				MintAmount:          crc20.ParseMintAmount(revealTx),
				RevealTxId:          revealTx.TxId,
				RevealConfirmations: revealTx.Confirmations,
				TotalSupply:         txOut.TokenData.Amount,
			}, nil
		}
	}
	return nil, nil
}

// verifyGenesis checks unlockingScript against output #0 of the commit transaction category.
// Returns nil metadata when the pair is not a genuine covenant.
func (u *Usecase) verifyGenesis(ctx context.Context, category chainhash.Hash, unlockingScript []byte) (*crc20.MetaInfo, error) {
	commitTx, err := u.getReferencedTransaction(ctx, category)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(commitTx.TxOut) == 0 {
		logger.DebugContext(ctx, "commit transaction has no outputs")
		return nil, nil
	}

	params, err := u.parser.Parse(commitTx.TxOut[0].LockingScript, unlockingScript)
	if err == nil {
		meta, extractErr := params.ExtractMetaInfo()
		if extractErr == nil {
			return &meta, nil
		}
		err = extractErr
	}
	if !errs.IsRejection(err) {
		return nil, errors.Wrap(err, "can't parse genesis output")
	}

	if errors.Is(err, errs.VerificationMismatch) {
		logger.WarnContext(ctx, "reveal input doesn't match its covenant", slogx.Error(err))
	} else {
		logger.DebugContext(ctx, "not a CRC20 genesis", slogx.Error(err))
	}
	return nil, nil
}

// getReferencedTransaction fetches a transaction the indexing service itself pointed to,
// so an unknown transaction means the service is inconsistent.
func (u *Usecase) getReferencedTransaction(ctx context.Context, txId chainhash.Hash) (*types.Transaction, error) {
	tx, err := u.indexerDg.GetTransaction(ctx, txId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.Wrapf(errs.CollaboratorFailure, "indexer references unknown transaction %s", txId)
		}
		return nil, errors.Wrapf(err, "can't get transaction %s", txId)
	}
	return tx, nil
}

func revealHeight(height int64) uint32 {
	if height <= 0 {
		return 0
	}
	return uint32(height)
}
