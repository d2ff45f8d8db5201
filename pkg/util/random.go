package util

import (
	"crypto/rand"
	"math/big"
)

const orderTokenChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// OrderTokenLength is the length of the customer-facing order token
const OrderTokenLength = 8

// GenerateOrderToken generates a random 8-character alphanumeric order token.
// The token is assigned once at order creation and never regenerated.
func GenerateOrderToken() (string, error) {
	token := make([]byte, OrderTokenLength)
	max := big.NewInt(int64(len(orderTokenChars)))
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		token[i] = orderTokenChars[n.Int64()]
	}
	return string(token), nil
}
