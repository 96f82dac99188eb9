package wallet

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeystore(t *testing.T) *KeystoreManager {
	t.Helper()
	km, err := NewKeystoreManager(t.TempDir())
	require.NoError(t, err)
	km.iterations = 1024
	return km
}

func TestKeystore_SaveLoad(t *testing.T) {
	km := newTestKeystore(t)
	w, err := NewWalletFromPrivateKey(testSeedHex)
	require.NoError(t, err)

	path, err := km.SaveWallet(w, "correct horse")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var ks Keystore
	require.NoError(t, json.Unmarshal(data, &ks))
	assert.Equal(t, w.Address(), ks.Address)
	assert.Equal(t, "pbkdf2", ks.Crypto.KDF)
	assert.Equal(t, 1024, ks.Crypto.KDFParams.C)
	assert.NotEmpty(t, ks.ID)

	loaded, err := km.LoadWallet(w.Address(), "correct horse")
	require.NoError(t, err)
	assert.Equal(t, w.Seed(), loaded.Seed())
	assert.Equal(t, w.Address(), loaded.Address())
}

func TestKeystore_WrongPassword(t *testing.T) {
	km := newTestKeystore(t)
	w, err := NewWallet()
	require.NoError(t, err)
	_, err = km.SaveWallet(w, "right")
	require.NoError(t, err)

	_, err = km.Load(w.Address(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestKeystore_Missing(t *testing.T) {
	km := newTestKeystore(t)
	_, err := km.Load("0x1", "pw")
	assert.Error(t, err)
}

func TestKeystore_List(t *testing.T) {
	km := newTestKeystore(t)
	var addresses []string
	for i := 0; i < 2; i++ {
		w, err := NewWallet()
		require.NoError(t, err)
		_, err = km.SaveWallet(w, "pw")
		require.NoError(t, err)
		addresses = append(addresses, w.Address())
	}

	listed, err := km.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, addresses, listed)
}
