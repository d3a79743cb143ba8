package electrum

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Transaction is the verbose transaction returned by blockchain.transaction.get.
type Transaction struct {
	TxId          string `json:"txid"`
	Hash          string `json:"hash"`
	Hex           string `json:"hex"`
	BlockHash     string `json:"blockhash"`
	Confirmations uint32 `json:"confirmations"`
	Time          int64  `json:"time"`
	Vin           []Vin  `json:"vin"`
	Vout          []Vout `json:"vout"`
}

type Vin struct {
	TxId      string    `json:"txid"`
	Vout      uint32    `json:"vout"`
	Coinbase  string    `json:"coinbase"`
	ScriptSig ScriptSig `json:"scriptSig"`
	Sequence  uint32    `json:"sequence"`
}

type ScriptSig struct {
	Asm string `json:"asm"`
	Hex string `json:"hex"`
}

type Vout struct {
	// Value is in BCH, e.g. 0.00001
	Value        json.Number  `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
	TokenData    *TokenData   `json:"tokenData"`
}

type ScriptPubKey struct {
	Asm       string   `json:"asm"`
	Hex       string   `json:"hex"`
	Type      string   `json:"type"`
	Addresses []string `json:"addresses"`
}

type TokenData struct {
	Category string      `json:"category"`
	Amount   TokenAmount `json:"amount"`
	NFT      *NFT        `json:"nft"`
}

type NFT struct {
	Capability string `json:"capability"`
	Commitment string `json:"commitment"`
}

// TokenAmount is a fungible token amount. Servers send it either as a JSON string or a number.
type TokenAmount uint64

func (a *TokenAmount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid token amount %q", data)
	}
	*a = TokenAmount(v)
	return nil
}

// UnspentOutput is an item of blockchain.scripthash.listunspent.
type UnspentOutput struct {
	TxHash    string     `json:"tx_hash"`
	TxPos     uint32     `json:"tx_pos"`
	Height    int64      `json:"height"`
	Value     int64      `json:"value"`
	TokenData *TokenData `json:"token_data"`
}

// HistoryEntry is an item of blockchain.scripthash.get_history.
type HistoryEntry struct {
	TxHash string `json:"tx_hash"`
	Height int64  `json:"height"`
	Fee    *int64 `json:"fee,omitempty"`
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id"`
	Method  string          `json:"method"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}
