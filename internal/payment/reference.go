package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReference returns FREE<unix-ms> for free orders and
// ORD<unix-ms><5 random chars> otherwise. Uniqueness is best-effort.
func NewReference(free bool, now time.Time) string {
	millis := now.UnixMilli()
	if free {
		return fmt.Sprintf("FREE%d", millis)
	}
	return fmt.Sprintf("ORD%d%s", millis, randomSuffix(5, now))
}

func randomSuffix(n int, now time.Time) string {
	var b strings.Builder
	size := big.NewInt(int64(len(refAlphabet)))

	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, size)
		if err != nil {
			// fallback: time-based entropy
			idx = big.NewInt((now.UnixNano() >> (i * 5)) % int64(len(refAlphabet)))
		}
		b.WriteByte(refAlphabet[idx.Int64()])
	}
	return b.String()
}
