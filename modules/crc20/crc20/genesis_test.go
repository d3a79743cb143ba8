package crc20

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRecipientPK = func() []byte {
	privKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x01}, 32))
	return privKey.PubKey().SerializeUncompressed()
}()

// a DER-shaped placeholder; the parser never checks signatures
var testRecipientSig = append([]byte{0x30, 0x44}, bytes.Repeat([]byte{0x02}, 69)...)

type countingCodec struct {
	TxScriptCodec
	tokenizeCalls int
	decodeCalls   int
}

func (c *countingCodec) Tokenize(script []byte) ([]ScriptToken, error) {
	c.tokenizeCalls++
	return c.TxScriptCodec.Tokenize(script)
}

func (c *countingCodec) DecodeScriptNum(data []byte) (int64, error) {
	c.decodeCalls++
	return c.TxScriptCodec.DecodeScriptNum(data)
}

func newTestContract(t *testing.T, meta MetaInfo) GenesisOutputContract {
	t.Helper()
	blob, symbolLength, err := meta.Encode()
	require.NoError(t, err)
	return GenesisOutputContract{
		RecipientPublicKey: testRecipientPK,
		MetaInfo:           blob,
		SymbolLength:       symbolLength,
	}
}

func p2shLockingScript(t *testing.T, redeemScript []byte) []byte {
	t.Helper()
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(btcutil.Hash160(redeemScript)).
		AddOp(txscript.OP_EQUAL).
		Script()
	require.NoError(t, err)
	return script
}

func revealUnlockingScript(t *testing.T, redeemScript []byte) []byte {
	t.Helper()
	script, err := txscript.NewScriptBuilder().AddData(testRecipientSig).AddData(redeemScript).Script()
	require.NoError(t, err)
	return script
}

// rawRedeemScript builds a redeem script with a hand-encoded symbol length argument.
func rawRedeemScript(t *testing.T, symbolLengthArg []byte, metaInfo []byte, recipientPK []byte) []byte {
	t.Helper()
	rest, err := txscript.NewScriptBuilder().AddData(metaInfo).AddData(recipientPK).Script()
	require.NoError(t, err)
	script := append([]byte{}, symbolLengthArg...)
	script = append(script, rest...)
	return append(script, GenesisOutputBytecode...)
}

func TestParseGenesisOutput(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8, Name: "Test Token"})
		redeemScript := utils.Must(contract.RedeemScript())

		params, err := ParseGenesisOutput(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
		require.NoError(t, err)
		assert.Equal(t, testRecipientPK, params.RecipientPublicKey)
		assert.Equal(t, contract.MetaInfo, params.MetaInfo)
		assert.Equal(t, uint16(4), params.SymbolLength)
		assert.Equal(t, utils.Must(contract.ScriptHash()), params.ScriptHash)

		meta, err := params.ExtractMetaInfo()
		require.NoError(t, err)
		assert.Equal(t, MetaInfo{Symbol: "TEST", Decimals: 8, Name: "Test Token"}, meta)
	})

	t.Run("small_int_symbol_lengths", func(t *testing.T) {
		for n := 1; n <= 16; n++ {
			contract := newTestContract(t, MetaInfo{Symbol: strings.Repeat("A", n), Decimals: 2, Name: "a"})
			redeemScript := utils.Must(contract.RedeemScript())
			assert.Equal(t, byte(txscript.OP_1+n-1), redeemScript[0])

			codec := &countingCodec{}
			params, err := NewGenesisParser(codec).Parse(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
			require.NoError(t, err, "symbol length %d", n)
			assert.Equal(t, uint16(n), params.SymbolLength)
			assert.Zero(t, codec.decodeCalls)
		}
	})

	t.Run("pushed_symbol_lengths", func(t *testing.T) {
		for _, tc := range []struct {
			length  int
			encoded []byte
		}{
			{17, []byte{0x01, 0x11}},
			{127, []byte{0x01, 0x7f}},
			{200, []byte{0x02, 0xc8, 0x00}},
			{300, []byte{0x02, 0x2c, 0x01}},
		} {
			contract := newTestContract(t, MetaInfo{Symbol: strings.Repeat("B", tc.length), Decimals: 0})
			redeemScript := utils.Must(contract.RedeemScript())
			assert.Equal(t, tc.encoded, redeemScript[:len(tc.encoded)])

			codec := &countingCodec{}
			params, err := NewGenesisParser(codec).Parse(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
			require.NoError(t, err, "symbol length %d", tc.length)
			assert.Equal(t, uint16(tc.length), params.SymbolLength)
			assert.Equal(t, 1, codec.decodeCalls)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "X", Decimals: 0})
		redeemScript := utils.Must(contract.RedeemScript())

		params, err := ParseGenesisOutput(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
		require.NoError(t, err)
		meta, err := params.ExtractMetaInfo()
		require.NoError(t, err)
		assert.Equal(t, MetaInfo{Symbol: "X"}, meta)
	})

	t.Run("mutated_metainfo_is_verification_mismatch", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8, Name: "Test Token"})
		redeemScript := utils.Must(contract.RedeemScript())
		lockingScript := p2shLockingScript(t, redeemScript)

		// OP_4 OP_DATA_15 'T' ...
		mutated := bytes.Clone(redeemScript)
		mutated[2] = 'F'

		params, err := ParseGenesisOutput(lockingScript, revealUnlockingScript(t, mutated))
		assert.Nil(t, params)
		assert.ErrorIs(t, err, errs.VerificationMismatch)
		assert.True(t, errs.IsRejection(err))
	})

	t.Run("mutated_recipient_key_is_verification_mismatch", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8, Name: "Test Token"})
		redeemScript := utils.Must(contract.RedeemScript())
		lockingScript := p2shLockingScript(t, redeemScript)

		mutated := bytes.Clone(redeemScript)
		mutated[len(mutated)-len(GenesisOutputBytecode)-1] ^= 0xff

		_, err := ParseGenesisOutput(lockingScript, revealUnlockingScript(t, mutated))
		assert.ErrorIs(t, err, errs.VerificationMismatch)
	})

	t.Run("non_canonical_symbol_length_is_verification_mismatch", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8})
		// <4> pushed as data instead of OP_4
		redeemScript := rawRedeemScript(t, []byte{0x01, 0x04}, contract.MetaInfo, testRecipientPK)

		_, err := ParseGenesisOutput(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
		assert.ErrorIs(t, err, errs.VerificationMismatch)
	})

	t.Run("undecodable_symbol_lengths", func(t *testing.T) {
		for name, arg := range map[string][]byte{
			"empty":       {txscript.OP_0},
			"non_minimal": {0x02, 0x05, 0x00},
			"negative":    {0x01, 0x85},
			"one_negate":  {txscript.OP_1NEGATE},
			"too_large":   {0x03, 0x00, 0x00, 0x01},
			"not_a_push":  {txscript.OP_DUP},
		} {
			t.Run(name, func(t *testing.T) {
				redeemScript := rawRedeemScript(t, arg, []byte("TEST\x08"), testRecipientPK)

				_, err := ParseGenesisOutput(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
				assert.ErrorIs(t, err, errs.ParameterDecodeFailure)
				assert.True(t, errs.IsRejection(err))
			})
		}
	})

	t.Run("compressed_recipient_key_is_malformed", func(t *testing.T) {
		compressed := utils.Must(btcec.ParsePubKey(testRecipientPK)).SerializeCompressed()
		redeemScript := rawRedeemScript(t, []byte{txscript.OP_4}, []byte("TEST\x08"), compressed)

		_, err := ParseGenesisOutput(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
		assert.ErrorIs(t, err, errs.MalformedScript)
	})

	t.Run("non_p2sh_locking_script_is_malformed", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8})
		redeemScript := utils.Must(contract.RedeemScript())
		p2pkh, err := txscript.NewScriptBuilder().
			AddOp(txscript.OP_DUP).
			AddOp(txscript.OP_HASH160).
			AddData(btcutil.Hash160(redeemScript)).
			AddOp(txscript.OP_EQUALVERIFY).
			AddOp(txscript.OP_CHECKSIG).
			Script()
		require.NoError(t, err)

		codec := &countingCodec{}
		_, err = NewGenesisParser(codec).Parse(p2pkh, revealUnlockingScript(t, redeemScript))
		assert.ErrorIs(t, err, errs.MalformedScript)
		assert.Zero(t, codec.tokenizeCalls)
	})

	t.Run("wrong_unlocking_token_count_short_circuits", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: strings.Repeat("C", 20), Decimals: 8})
		redeemScript := utils.Must(contract.RedeemScript())
		lockingScript := p2shLockingScript(t, redeemScript)

		for name, unlockingScript := range map[string][]byte{
			"one":   utils.Must(txscript.NewScriptBuilder().AddData(redeemScript).Script()),
			"three": utils.Must(txscript.NewScriptBuilder().AddData(testRecipientSig).AddData(testRecipientSig).AddData(redeemScript).Script()),
		} {
			t.Run(name, func(t *testing.T) {
				codec := &countingCodec{}
				_, err := NewGenesisParser(codec).Parse(lockingScript, unlockingScript)
				assert.ErrorIs(t, err, errs.MalformedScript)
				assert.Equal(t, 2, codec.tokenizeCalls)
				assert.Zero(t, codec.decodeCalls)
			})
		}
	})

	t.Run("foreign_redeem_script_short_circuits", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: strings.Repeat("D", 20), Decimals: 8})
		redeemScript := utils.Must(contract.RedeemScript())
		redeemScript[len(redeemScript)-1] = txscript.OP_EQUALVERIFY

		codec := &countingCodec{}
		_, err := NewGenesisParser(codec).Parse(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
		assert.ErrorIs(t, err, errs.MalformedScript)
		assert.Equal(t, 2, codec.tokenizeCalls)
		assert.Zero(t, codec.decodeCalls)
	})

	t.Run("truncated_unlocking_script_is_malformed", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8})
		redeemScript := utils.Must(contract.RedeemScript())

		_, err := ParseGenesisOutput(p2shLockingScript(t, redeemScript), []byte{txscript.OP_PUSHDATA1, 0x20, 0x01})
		assert.ErrorIs(t, err, errs.MalformedScript)
	})

	t.Run("extra_constructor_argument_is_malformed", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8})
		redeemScript := append([]byte{txscript.OP_1}, utils.Must(contract.RedeemScript())...)

		_, err := ParseGenesisOutput(p2shLockingScript(t, redeemScript), revealUnlockingScript(t, redeemScript))
		assert.ErrorIs(t, err, errs.MalformedScript)
	})
}

func TestGenesisParserScriptHash(t *testing.T) {
	parser := NewGenesisParser(nil)

	t.Run("pay_to_script_hash", func(t *testing.T) {
		redeemScript := utils.Must(newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8}).RedeemScript())
		hash, err := parser.ScriptHash(p2shLockingScript(t, redeemScript))
		require.NoError(t, err)
		assert.Equal(t, btcutil.Hash160(redeemScript), hash[:])
	})

	t.Run("other_scripts_are_malformed", func(t *testing.T) {
		p2pkh, err := txscript.NewScriptBuilder().
			AddOp(txscript.OP_DUP).
			AddOp(txscript.OP_HASH160).
			AddData(bytes.Repeat([]byte{0x01}, 20)).
			AddOp(txscript.OP_EQUALVERIFY).
			AddOp(txscript.OP_CHECKSIG).
			Script()
		require.NoError(t, err)

		for _, script := range [][]byte{
			nil,
			{},
			{txscript.OP_HASH160},
			{txscript.OP_HASH160, txscript.OP_DATA_20, 0x01, 0x02, 0x03, 0x04, 0x05},
			p2pkh,
		} {
			var err error
			require.NotPanics(t, func() {
				_, err = parser.ScriptHash(script)
			})
			assert.ErrorIs(t, err, errs.MalformedScript, "%x", script)
		}
	})
}

func TestDeriveCovenantScriptHash(t *testing.T) {
	t.Run("matches_hash160_of_redeem_script", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "TEST", Decimals: 8, Name: "Test Token"})
		hash, err := DeriveCovenantScriptHash(contract.RecipientPublicKey, contract.MetaInfo, contract.SymbolLength)
		require.NoError(t, err)
		assert.Equal(t, btcutil.Hash160(utils.Must(contract.RedeemScript())), hash[:])
	})

	t.Run("redeem_script_layout", func(t *testing.T) {
		contract := newTestContract(t, MetaInfo{Symbol: "AB", Decimals: 1, Name: "c"})
		script := utils.Must(contract.RedeemScript())

		expected := []byte{txscript.OP_2, txscript.OP_DATA_4, 'A', 'B', 0x01, 'c', txscript.OP_DATA_65}
		expected = append(expected, testRecipientPK...)
		expected = append(expected, GenesisOutputBytecode...)
		assert.Equal(t, expected, script)
	})

	t.Run("wrong_key_length_is_invalid_parameter", func(t *testing.T) {
		_, err := DeriveCovenantScriptHash(testRecipientPK[:33], []byte("TEST\x08"), 4)
		assert.ErrorIs(t, err, errs.InvalidParameter)
		assert.False(t, errs.IsRejection(err))
	})
}

func TestNormalizeRecipientPublicKey(t *testing.T) {
	compressed := utils.Must(btcec.ParsePubKey(testRecipientPK)).SerializeCompressed()

	actual, err := NormalizeRecipientPublicKey(compressed)
	require.NoError(t, err)
	assert.Equal(t, testRecipientPK, actual)

	actual, err = NormalizeRecipientPublicKey(testRecipientPK)
	require.NoError(t, err)
	assert.Equal(t, testRecipientPK, actual)

	_, err = NormalizeRecipientPublicKey([]byte{0x02, 0x01})
	assert.ErrorIs(t, err, errs.InvalidParameter)
}
