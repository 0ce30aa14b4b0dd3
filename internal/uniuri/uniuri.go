package uniuri

import (
	"crypto/rand"
	"math"
)

// SessionLen gives ~381 bits of entropy with Alphanumeric.
const SessionLen = 64

// Alphanumeric is the default token alphabet.
var Alphanumeric = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789") //nolint:gochecknoglobals

const (
	maxBufLen = 2048
	minRefill = 16
	byteRange = 256
)

// Session returns a new session token.
func Session() string {
	return Token(SessionLen, Alphanumeric)
}

// Token returns a random string of length characters drawn from alphabet.
// It panics if the alphabet has fewer than 2 or more than 256 symbols.
func Token(length int, alphabet []byte) string {
	if length <= 0 {
		return ""
	}

	size := len(alphabet)
	if size < 2 || size > byteRange {
		panic("uniuri: alphabet must have between 2 and 256 symbols")
	}

	// bytes above limit are rejected so every symbol is equally likely
	limit := byteRange - (byteRange % size) - 1
	out := make([]byte, 0, length)
	buf := make([]byte, bufLen(length, limit))

	for {
		// crypto/rand.Read never fails, it crashes the program instead
		_, _ = rand.Read(buf)

		for _, b := range buf {
			if int(b) > limit {
				continue
			}

			out = append(out, alphabet[int(b)%size])
			if len(out) == length {
				return string(out)
			}
		}

		buf = buf[:bufLen(length-len(out), limit)]
	}
}

// bufLen estimates how many random bytes yield need accepted symbols.
func bufLen(need, limit int) int {
	n := int(math.Ceil(float64(need) * float64(byteRange-1) / float64(limit)))

	return min(max(n, need, minRefill), maxBufLen)
}
