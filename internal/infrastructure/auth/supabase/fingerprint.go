package supabase

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifica um token nos logs sem expor o próprio token
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}
