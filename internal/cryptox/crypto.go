// Package cryptox implements the at-rest protection for locally persisted
// session credentials: argon2id key stretching of the per-install machine
// secret and AES-GCM sealing of serialized values.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const nonceSize = 12

// DeriveStorageKey stretches the per-install machine secret into a 256-bit
// AES key. The salt is stored alongside the database and only needs to be
// unique per install, not secret.
func DeriveStorageKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// Seal encrypts plaintext with AES-GCM under key and returns nonce||ciphertext.
// A fresh random 12-byte nonce is generated per call.
func Seal(plaintext, key []byte) ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return append(nonce, aesgcm.Seal(nil, nonce, plaintext, nil)...), nil
}

// Open decrypts a nonce||ciphertext blob produced by Seal. Fails if the blob
// is truncated, the key is wrong, or the ciphertext was tampered with.
func Open(sealed, key []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("sealed blob too short: %d bytes", len(sealed))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
}
