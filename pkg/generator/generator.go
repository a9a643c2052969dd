package generator

import (
	"crypto/rand"
	"math/big"
)

// URL-safe, so values can go into query strings and cookies as is.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

var alphabetLen = big.NewInt(int64(len(alphabet)))

func Token(length int) (string, error) {
	result := make([]byte, length)
	for i := range result {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		result[i] = alphabet[idx.Int64()]
	}
	return string(result), nil
}

// StateAndNonce returns two independent tokens for an OIDC authorization request.
func StateAndNonce(length int) (state, nonce string, err error) {
	if state, err = Token(length); err != nil {
		return "", "", err
	}
	if nonce, err = Token(length); err != nil {
		return "", "", err
	}
	return state, nonce, nil
}
