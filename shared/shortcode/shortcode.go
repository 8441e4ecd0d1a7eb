package shortcode

import (
	"crypto/rand"
	"fmt"
)

// alphabet deliberately omits characters that read ambiguously on a
// front-desk scanner display (0/O, 1/I/L).
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const DefaultLength = 10

// New returns an opaque display code of the given length.
func New(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	buf := make([]byte, length)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf), nil
}
