package files

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashAnswer returns the lowercase hex SHA-256 digest of answer.
// The comparison is case-sensitive: "Paris" and "paris" differ.
func HashAnswer(answer string) string {
	sum := sha256.Sum256([]byte(answer))
	return hex.EncodeToString(sum[:])
}

// AnswerMatches reports whether candidate hashes to the stored digest.
func AnswerMatches(candidate, hashed string) bool {
	return subtle.ConstantTimeCompare([]byte(HashAnswer(candidate)), []byte(hashed)) == 1
}
