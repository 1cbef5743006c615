package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateSecureID generates a prefixed, time-ordered random ID for carriers and loads
func GenerateSecureID(prefix string) string {
	max := big.NewInt(999999)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		n = big.NewInt(time.Now().UnixNano() % 999999)
	}

	return fmt.Sprintf("%s%d%06d", prefix, time.Now().Unix(), n.Int64())
}
