package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsEmail returns true if the string is a valid email address.
func IsEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// GenerateOTP draws a numeric code of the given length uniformly at random.
func GenerateOTP(length int) string {
	return randomDigits(length)
}

// GenerateCardNumber produces a 16-digit card number with the 4 prefix.
func GenerateCardNumber() string {
	return "4" + randomDigits(15)
}

// GenerateCVV produces a 3-digit card verification value.
func GenerateCVV() string {
	return randomDigits(3)
}

// GenerateReference mints a transaction reference: monotonic-time seed plus
// a random suffix. Assigned exactly once per transaction.
func GenerateReference() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixNano(), randomDigits(4))
}

func randomDigits(n int) string {
	const digits = "0123456789"
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			// crypto/rand failing means the platform is broken; there is
			// no sensible fallback for security-relevant codes.
			panic(err)
		}
		out[i] = digits[idx.Int64()]
	}
	return string(out)
}
