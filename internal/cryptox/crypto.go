// Package cryptox implements the symmetric wire codec for vault records.
//
// Tokens are AES-128-CBC with PKCS#7 padding, base64-encoded. The current
// layout prepends a fresh random 16-byte IV to the ciphertext, so encrypting
// the same plaintext twice yields different tokens; callers must never
// compare tokens to test content equality. DecryptCandidates additionally
// understands the legacy layout written by pre-upgrade devices, which used a
// fixed all-zero IV and no prefix. Both layouts share the same key
// derivation: the UTF-8 secret right-padded with '0' to exactly 16 bytes.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"

	"github.com/dmitrijs2005/moneylog/internal/common"
)

const (
	keySize = 16
	ivSize  = 16
	keyPad  = '0'
)

// formatKey normalizes the shared secret to a 128-bit AES key.
func formatKey(secret string) []byte {
	key := []byte(secret)
	if len(key) >= keySize {
		return key[:keySize]
	}
	padded := make([]byte, keySize)
	copy(padded, key)
	for i := len(key); i < keySize; i++ {
		padded[i] = keyPad
	}
	return padded
}

func pkcs7Pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}

func cbcEncrypt(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	padded := pkcs7Pad(plaintext)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func cbcDecrypt(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("invalid ciphertext length")
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out)
}

// Encrypt produces a token in the current layout: base64(IV || ciphertext)
// with a fresh random IV per call.
func Encrypt(plaintext, secret string) (string, error) {
	key := formatKey(secret)
	defer common.WipeByteArray(key)

	iv := common.GenerateRandByteArray(ivSize)

	ct, err := cbcEncrypt([]byte(plaintext), key, iv)
	if err != nil {
		return "", err
	}

	combined := make([]byte, 0, len(iv)+len(ct))
	combined = append(combined, iv...)
	combined = append(combined, ct...)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// DecryptCandidates returns the plausible plaintexts of token under the
// shared key, most likely first: the current IV-prefixed layout, then the
// legacy zero-IV layout.
//
// Padding validity alone cannot identify the layout. CBC only chains
// adjacent blocks, so misreading a legacy token's first block as an IV
// still decrypts the remaining blocks to a cleanly padded tail; such a
// token yields a first candidate with its opening block missing AND the
// full plaintext as the second candidate. Callers must structurally
// validate each candidate in order and take the first that parses. An
// empty slice means the token is unreadable under both layouts.
func DecryptCandidates(token, secret string) []string {
	key := formatKey(secret)
	defer common.WipeByteArray(key)

	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil
	}

	var candidates []string
	if len(decoded) > ivSize {
		if pt, err := cbcDecrypt(decoded[ivSize:], key, decoded[:ivSize]); err == nil {
			candidates = append(candidates, string(pt))
		}
	}

	// Legacy layout: the whole payload is ciphertext under a zero IV.
	if pt, err := cbcDecrypt(decoded, key, make([]byte, ivSize)); err == nil {
		candidates = append(candidates, string(pt))
	}

	return candidates
}

// EncryptLegacy writes the pre-upgrade zero-IV layout. It exists only so the
// dual-path decoder can be exercised against real legacy tokens; no
// production path calls it.
func EncryptLegacy(plaintext, secret string) (string, error) {
	key := formatKey(secret)
	defer common.WipeByteArray(key)

	ct, err := cbcEncrypt([]byte(plaintext), key, make([]byte, ivSize))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}
