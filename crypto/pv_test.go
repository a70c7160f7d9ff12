package crypto

import (
	"path/filepath"
	"testing"

	"github.com/calehh/valreg-app/tx"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/privval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignTx(t *testing.T) {
	pv := NewPV(ed25519.GenPrivKey())
	btx := &tx.RegTx{
		Version: tx.RegTxVersion1,
		Type:    tx.RegTxTypeInitProfile,
		Tx:      &tx.InitProfileTx{Name: "Alice"},
	}
	require.NoError(t, pv.SignTx(btx, "test-chain"))
	assert.Equal(t, pv.PublicKey(), btx.Signer)

	ok, err := btx.Verify("test-chain")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = btx.Verify("other-chain")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadFilePV(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "priv_validator_key.json")
	filePV := privval.GenFilePV(keyFile, filepath.Join(dir, "priv_validator_state.json"))
	filePV.Save()

	pv, err := LoadFilePV(keyFile)
	require.NoError(t, err)
	assert.Equal(t, filePV.Key.PubKey.Bytes(), pv.Address().Bytes())

	_, err = LoadFilePV(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
