package crc20

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/samber/lo"
)

// DefaultConfirmationThreshold is the number of confirmations a reveal needs to be considered canonical.
const DefaultConfirmationThreshold = 10

// Token is a verified CRC20 token genesis.
type Token struct {
	Symbol   string
	Name     string
	Decimals uint8

	// Category is the txid of the commit transaction, also the CashTokens category id.
	Category chainhash.Hash

	// MintAmount is nil if the reveal does not declare a per-mint amount.
	MintAmount *uint64

	RevealTxId          chainhash.Hash
	RevealHeight        uint32
	RevealConfirmations uint32

	// TotalSupply is the fungible amount minted by the reveal output.
	TotalSupply uint64
}

// Trust classifies a token among all tokens claiming the same symbol.
type Trust uint8

const (
	// TrustUnconfirmed means no token with the symbol has reached the confirmation threshold yet.
	TrustUnconfirmed Trust = iota

	// TrustConfirmed is the canonical token of its symbol.
	TrustConfirmed

	// TrustConflicting is any other token claiming a symbol that already has a canonical token.
	TrustConflicting
)

func (t Trust) String() string {
	switch t {
	case TrustConfirmed:
		return "confirmed"
	case TrustConflicting:
		return "conflicting"
	default:
		return "unconfirmed"
	}
}

// Color returns the traffic-light color of t.
func (t Trust) Color() string {
	switch t {
	case TrustConfirmed:
		return "green"
	case TrustConflicting:
		return "red"
	default:
		return "yellow"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Trust) MarshalText() ([]byte, error) {
	return []byte(t.Color()), nil
}

// ColorTrust classifies tokens per symbol. Within each symbol, the first token (in input order)
// with at least threshold confirmations is TrustConfirmed and every other category is TrustConflicting.
// If none reaches the threshold all of them are TrustUnconfirmed. Nil tokens are ignored.
func ColorTrust(tokens []*Token, threshold uint32) map[chainhash.Hash]Trust {
	tokens = lo.Compact(tokens)
	canonical := make(map[string]chainhash.Hash)
	for _, token := range tokens {
		if _, ok := canonical[token.Symbol]; ok {
			continue
		}
		if token.RevealConfirmations >= threshold {
			canonical[token.Symbol] = token.Category
		}
	}

	trust := make(map[chainhash.Hash]Trust, len(tokens))
	for _, token := range tokens {
		category, ok := canonical[token.Symbol]
		switch {
		case !ok:
			trust[token.Category] = TrustUnconfirmed
		case category == token.Category:
			trust[token.Category] = TrustConfirmed
		default:
			trust[token.Category] = TrustConflicting
		}
	}
	return trust
}
