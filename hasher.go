package adminauth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	goerrors "github.com/goliatone/go-errors"
)

const (
	saltBytes    = 16
	saltHexLen   = saltBytes * 2
	digestHexLen = sha256.Size * 2
	hashLen      = saltHexLen + digestHexLen
)

// HashPassword will generate a salted password hash. The output is
// hex(salt) followed by hex(sha256(password || hex(salt))), 96
// characters total.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyPassword
	}

	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate password salt")
	}

	saltHex := hex.EncodeToString(salt)
	return saltHex + digestHex(password, saltHex), nil
}

// VerifyPassword reports whether password matches the stored hash.
// Any malformed stored value fails closed.
func VerifyPassword(password, stored string) bool {
	if password == "" || len(stored) != hashLen {
		return false
	}

	saltHex := stored[:saltHexLen]
	if _, err := hex.DecodeString(saltHex); err != nil {
		return false
	}

	want := stored[saltHexLen:]
	got := digestHex(password, saltHex)

	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if !VerifyPassword(password, hash) {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

func digestHex(password, saltHex string) string {
	sum := sha256.Sum256([]byte(password + saltHex))
	return hex.EncodeToString(sum[:])
}
