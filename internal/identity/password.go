package identity

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func hashSecret(s string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

func secretMatches(hash, s string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(s))
	return err == nil
}

// security answers compare case- and space-insensitively
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
