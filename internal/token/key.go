package token

import (
	"crypto/sha256"
	"encoding/base64"
)

// MinKeyLength is the minimum HMAC-SHA256 key size in bytes.
const MinKeyLength = 32

// DeriveKey turns a configured secret into a signing key of at least
// MinKeyLength bytes. A base64 secret that decodes to enough bytes is used
// as-is; anything shorter is hashed with SHA-256.
func DeriveKey(secret string) []byte {
	decoded, ok := decodeBase64(secret)
	if ok && len(decoded) >= MinKeyLength {
		return decoded
	}

	material := []byte(secret)
	if ok {
		material = decoded
	}

	sum := sha256.Sum256(material)
	return sum[:]
}

func decodeBase64(secret string) ([]byte, bool) {
	if secret == "" {
		return nil, false
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(secret); err == nil {
			return b, true
		}
	}
	return nil, false
}
