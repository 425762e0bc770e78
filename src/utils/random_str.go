package utils

import (
	"crypto/rand"
	"math/big"
)

const randomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns n characters drawn from [A-Za-z0-9].
func RandomString(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, n)
	max := big.NewInt(int64(len(randomAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			idx = big.NewInt(int64(i % len(randomAlphabet)))
		}
		out[i] = randomAlphabet[idx.Int64()]
	}
	return string(out)
}
