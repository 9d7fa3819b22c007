package domain

import (
	"math/rand/v2"
	"strings"
)

const (
	// JoinCodeAlphabet is the character set join codes are drawn from.
	JoinCodeAlphabet = "12345qwertyuiopasdfgh67890jklmnbvcxzMNBVCZXASDQWERTYHGFUIOLKJP"
	// JoinCodeLength is the number of characters in a join code.
	JoinCodeLength = 8
)

// JoinCodeGenerator produces new join codes.
type JoinCodeGenerator func() string

// GenerateJoinCode draws JoinCodeLength characters uniformly, with
// replacement, from JoinCodeAlphabet. It does not check for collisions.
// The value doubles as a throwaway identity for anonymous room joins.
func GenerateJoinCode() string {
	var b strings.Builder
	b.Grow(JoinCodeLength)
	for range JoinCodeLength {
		b.WriteByte(JoinCodeAlphabet[rand.IntN(len(JoinCodeAlphabet))])
	}
	return b.String()
}

// IsValidJoinCode reports whether value has the shape of a generated code.
func IsValidJoinCode(value string) bool {
	if len(value) != JoinCodeLength {
		return false
	}
	for i := range len(value) {
		if strings.IndexByte(JoinCodeAlphabet, value[i]) < 0 {
			return false
		}
	}
	return true
}
