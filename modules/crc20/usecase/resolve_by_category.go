package usecase

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/core/types"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/gaze-network/crc20-resolver/pkg/bchutils"
	"github.com/gaze-network/crc20-resolver/pkg/logger"
	"github.com/gaze-network/crc20-resolver/pkg/logger/slogx"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// MaxBatchCategories is the maximum number of categories ResolveByCategories accepts.
const MaxBatchCategories = 100

// ResolveByCategory returns the token whose commit transaction is category.
// Returns errs.NotFound if category is not a verified CRC20 token.
func (u *Usecase) ResolveByCategory(ctx context.Context, category chainhash.Hash) (*crc20.Token, error) {
	ctx = logger.WithContext(ctx, slogx.Stringer("category", category))

	commitTx, err := u.indexerDg.GetTransaction(ctx, category)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.Wrapf(errs.NotFound, "transaction %s not found", category)
		}
		return nil, errors.Wrapf(err, "can't get transaction %s", category)
	}
	if len(commitTx.TxOut) == 0 {
		return nil, errors.Wrapf(errs.NotFound, "%s has no outputs", category)
	}
	scriptHash, err := u.parser.ScriptHash(commitTx.TxOut[0].LockingScript)
	if err != nil {
		return nil, errors.Wrapf(errs.NotFound, "output #0 of %s: %v", category, err)
	}

	covenantAddress, err := bchutils.NewAddressScriptHash(scriptHash[:], u.network)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	history, err := u.indexerDg.GetAddressHistory(ctx, covenantAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "can't get history of %s", covenantAddress)
	}

	for _, item := range history {
		if item.TxId == category {
			continue
		}
		revealTx, err := u.getReferencedTransaction(ctx, item.TxId)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !lo.ContainsBy(revealTx.TxIn, func(txIn *types.TxIn) bool { return txIn.PreviousOutTxId == category }) {
			continue
		}

		token, err := u.scanReveal(ctx, revealTx, revealFilter{category: &category})
		if err != nil {
			return nil, errors.Wrapf(err, "can't scan reveal transaction %s", item.TxId)
		}
		if token == nil {
			continue
		}
		if token.Category != category {
			// unreachable with the category filter, kept against address collisions
			return nil, errors.Wrapf(errs.NotFound, "reveal %s belongs to category %s", item.TxId, token.Category)
		}
		token.RevealHeight = revealHeight(item.Height)
		return token, nil
	}
	return nil, errors.Wrapf(errs.NotFound, "no verified reveal of %s", category)
}

// ResolveByCategories resolves categories concurrently. Categories that are not tokens are omitted from the result.
func (u *Usecase) ResolveByCategories(ctx context.Context, categories []chainhash.Hash) (map[chainhash.Hash]*crc20.Token, error) {
	categories = lo.Uniq(categories)
	if len(categories) > MaxBatchCategories {
		return nil, errors.Wrapf(errs.InvalidArgument, "too many categories, max %d", MaxBatchCategories)
	}

	tokens := make([]*crc20.Token, len(categories))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(u.concurrency)
	for i, category := range categories {
		eg.Go(func() error {
			token, err := u.ResolveByCategory(ectx, category)
			if err != nil {
				if errors.Is(err, errs.NotFound) && !errors.Is(err, errs.CollaboratorFailure) {
					return nil
				}
				return errors.WithStack(err)
			}
			tokens[i] = token
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}

	result := make(map[chainhash.Hash]*crc20.Token, len(categories))
	for i, token := range tokens {
		if token != nil {
			result[categories[i]] = token
		}
	}
	return result, nil
}
