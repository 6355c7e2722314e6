package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Secret returns the day's number in [lower, upper], derived from
// HMAC(salt, YYYY-MM-DD) so every player gets the same one.
func Secret(date time.Time, salt string, lower, upper int) int {
	if lower >= upper {
		return lower
	}
	// size is 0 only when [lower, upper] spans all 2^64 ints.
	size := uint64(uint(upper-lower)) + 1
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	if size != 0 {
		n %= size
	}
	return lower + int(n)
}
