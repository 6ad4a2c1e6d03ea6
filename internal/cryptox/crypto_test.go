package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveStorageKey([]byte("machine-secret"), []byte("salt-0001"))
	require.Len(t, key, 32)

	plaintext := []byte(`{"access_token":"A","refresh_token":"R"}`)

	sealed, err := Seal(plaintext, key)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, sealed)

	opened, err := Open(sealed, key)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestSeal_NonceIsFreshPerCall(t *testing.T) {
	key := DeriveStorageKey([]byte("machine-secret"), []byte("salt-0001"))

	a, err := Seal([]byte("x"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("x"), key)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key := DeriveStorageKey([]byte("machine-secret"), []byte("salt-0001"))
	other := DeriveStorageKey([]byte("different"), []byte("salt-0001"))

	sealed, err := Seal([]byte("payload"), key)
	require.NoError(t, err)

	_, err = Open(sealed, other)
	require.Error(t, err)
}

func TestOpen_TruncatedBlobFails(t *testing.T) {
	key := DeriveStorageKey([]byte("machine-secret"), []byte("salt-0001"))
	_, err := Open([]byte{0x01, 0x02}, key)
	require.Error(t, err)
}

func TestDeriveStorageKey_Deterministic(t *testing.T) {
	a := DeriveStorageKey([]byte("s"), []byte("salt"))
	b := DeriveStorageKey([]byte("s"), []byte("salt"))
	c := DeriveStorageKey([]byte("s"), []byte("other"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
