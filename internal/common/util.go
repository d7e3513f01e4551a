package common

import (
	"crypto/rand"
	"math/big"
)

const captchaAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomCode returns a random lowercase alphanumeric string of length n.
func RandomCode(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(captchaAlphabet)))
	for i := range b {
		k, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = captchaAlphabet[k.Int64()]
	}
	return string(b), nil
}
