package security

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	// TokenAlphabet is the 62 symbol alphanumeric set tokens are drawn from.
	TokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	TokenLength   = 25
)

// MakeSubscriptionToken returns a confirmation token of TokenLength
// symbols picked uniformly from TokenAlphabet using crypto/rand.
func MakeSubscriptionToken() (string, error) {
	return gonanoid.Generate(TokenAlphabet, TokenLength)
}

// IsWellFormedToken reports whether s could have been produced by
// MakeSubscriptionToken. It says nothing about whether the token exists.
func IsWellFormedToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}

	return true
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
