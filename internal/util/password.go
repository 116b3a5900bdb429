package util

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

// passwordCharset matches the alphabet the onboarding console has always
// used for temporary credentials.
const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"

const TempPasswordLength = 10

// GenerateTempPassword returns a random temporary password drawn from
// passwordCharset using crypto/rand.
func GenerateTempPassword(length int) string {
	if length <= 0 {
		length = TempPasswordLength
	}

	max := big.NewInt(int64(len(passwordCharset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; nothing sensible to do but give up loudly.
			panic(err)
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
