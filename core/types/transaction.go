package types

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Transaction is the verbose view of a transaction returned by the indexing service.
type Transaction struct {
	TxId chainhash.Hash

	// Confirmations is zero for mempool transactions.
	Confirmations uint32
	TxIn          []*TxIn
	TxOut         []*TxOut
}

type TxIn struct {
	PreviousOutTxId  chainhash.Hash
	PreviousOutIndex uint32
	UnlockingScript  []byte
}

// Spends reports whether the input spends output index of txId.
func (in *TxIn) Spends(txId chainhash.Hash, index uint32) bool {
	return in.PreviousOutIndex == index && in.PreviousOutTxId == txId
}

type TxOut struct {
	Index         uint32
	Value         int64 // satoshis
	LockingScript []byte

	// TokenData is nil when the output carries no native token.
	TokenData *TokenData
}

// TokenData is the native token (CashTokens) prefix of an output.
type TokenData struct {
	Category chainhash.Hash
	Amount   uint64
}

// UTXO is an unspent output sent to an address.
type UTXO struct {
	TxId  chainhash.Hash
	Index uint32

	// Height is zero (or negative on some servers) for mempool outputs.
	Height int64
}

// HistoryItem is one transaction touching an address.
type HistoryItem struct {
	TxId   chainhash.Hash
	Height int64
}
