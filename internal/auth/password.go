package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt only considers the first 72 bytes of the input. Longer
// passwords are truncated before hashing and before verification so
// that both paths agree with each other and with hashes already
// stored under this policy.
const maxPasswordBytes = 72

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword returns a bcrypt hash of the password. The salt is
// generated per call, so hashing the same password twice yields
// different blobs.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
// A malformed hash is treated the same as a mismatch.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password)) == nil
}
