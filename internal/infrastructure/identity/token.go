package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// newRefreshToken token opaco de 32 bytes aleatorios.
func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// hashToken solo se persiste el hash del refresh token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
