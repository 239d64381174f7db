package usecase

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// ShortCodeLength is the length of every issued short code.
	ShortCodeLength = 6
	// ShortCodeAlphabet holds the 62 symbols a short code is drawn from.
	ShortCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// GenerateShortCode draws ShortCodeLength symbols uniformly from ShortCodeAlphabet.
func GenerateShortCode() (string, error) {
	const op = "usecase.GenerateShortCode"

	code, err := gonanoid.Generate(ShortCodeAlphabet, ShortCodeLength)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return code, nil
}

// IsShortCode reports whether s has the shape of an issued short code.
func IsShortCode(s string) bool {
	if len(s) != ShortCodeLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return false
		}
	}

	return true
}
