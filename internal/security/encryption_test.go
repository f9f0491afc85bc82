package security

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptor_EncryptDecrypt(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		plaintext string
	}{
		{
			name:      "simple text",
			plaintext: "Hello, World!",
		},
		{
			name:      "profile document",
			plaintext: `{"name":"Jaime","heightCm":172,"weightHistory":[{"date":"2026-01-02","value":84.5}]}`,
		},
		{
			name:      "empty string",
			plaintext: "",
		},
		{
			name:      "unicode text",
			plaintext: "Petit-déjeuner : œufs brouillés et thé vert",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ciphertext, err := encryptor.Encrypt(tc.plaintext)
			require.NoError(t, err)

			// Empty plaintext stays empty
			if tc.plaintext == "" {
				assert.Equal(t, "", ciphertext)
				return
			}

			assert.NotEqual(t, tc.plaintext, ciphertext)

			decrypted, err := encryptor.Decrypt(ciphertext)
			require.NoError(t, err)
			assert.Equal(t, tc.plaintext, decrypted)
		})
	}
}

func TestEncryptor_NonDeterministicNonce(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	first, err := encryptor.Encrypt("same document")
	require.NoError(t, err)
	second, err := encryptor.Encrypt("same document")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewEncryptor_RejectsBadKeyLength(t *testing.T) {
	_, err := NewEncryptor([]byte("too short"))
	assert.Error(t, err)
}

func TestEncryptor_DecryptRejectsGarbage(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	_, err = encryptor.Decrypt("not-base64!!!")
	assert.Error(t, err)

	_, err = encryptor.Decrypt("c2hvcnQ=")
	assert.Error(t, err)
}
