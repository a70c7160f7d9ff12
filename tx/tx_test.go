package tx

import (
	"encoding/json"
	"testing"

	"github.com/calehh/valreg-app/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, priv ed25519.PrivKey, btx *RegTx, chainId string) []byte {
	btx.Signer = priv.PubKey().Bytes()
	dat, err := btx.SigData([]byte(chainId))
	require.NoError(t, err)
	sig, err := priv.Sign(dat)
	require.NoError(t, err)
	btx.Sig = [][]byte{sig}
	out, err := MarshalRegTx(btx)
	require.NoError(t, err)
	return out
}

func TestUnmarshalRegTx(t *testing.T) {
	priv := ed25519.GenPrivKey()
	stake := &StakeTx{Amount: 500, Pool: types.Address{9}, Source: types.Address{7}}
	dat := signed(t, priv, &RegTx{Version: RegTxVersion1, Type: RegTxTypeStake, Nonce: 4, Tx: stake}, "chain")

	btx, err := UnmarshalRegTx(dat)
	require.NoError(t, err)
	assert.Equal(t, RegTxTypeStake, btx.Type)
	assert.Equal(t, uint64(4), btx.Nonce)
	assert.Equal(t, stake, btx.Tx)

	ok, err := btx.Verify("chain")
	require.NoError(t, err)
	assert.True(t, ok)

	btx.Tx.(*StakeTx).Amount = 501
	ok, err = btx.Verify("chain")
	require.NoError(t, err)
	assert.False(t, ok)

	signer, err := btx.SignerAddress()
	require.NoError(t, err)
	assert.Equal(t, types.BytesToAddress(priv.PubKey().Bytes()), signer)
}

func TestUnmarshalRegTxErrors(t *testing.T) {
	_, err := UnmarshalRegTx([]byte(`{"type":200}`))
	assert.ErrorIs(t, err, ErrUnsupportedTxType)

	_, err = UnmarshalRegTx([]byte(`not json`))
	assert.ErrorIs(t, err, ErrUnsupportedTxType)

	dat, err := json.Marshal(&RegTx{Version: RegTxVersion0, Type: RegTxTypeVote, Tx: &VoteTx{}})
	require.NoError(t, err)
	_, err = UnmarshalRegTx(dat)
	assert.ErrorIs(t, err, ErrUnsupportedTxVersion)

	_, err = UnmarshalRegTx([]byte(`{"version":1,"type":15,"tx":{"vote":"yes"}}`))
	assert.ErrorIs(t, err, ErrInvalidTx)

	_, err = (&RegTx{Signer: []byte{1, 2}}).SignerAddress()
	assert.ErrorIs(t, err, ErrInvalidSigner)

	ok, err := (&RegTx{Signer: make([]byte, 32)}).Verify("chain")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegTxTypeString(t *testing.T) {
	assert.Equal(t, "claim_reward", RegTxTypeClaimReward.String())
	assert.Equal(t, "unknown", RegTxType(99).String())
}
