// Package fingerprint derives the dedup key stored with every competitor event.
//
// The default algorithm folds the key into a signed 32-bit polynomial rolling
// hash (h = h*31 + c over UTF-16 code units), which matches fingerprints
// already stored by the JavaScript dashboard. It is not collision resistant:
// two distinct keys can collide and the second event is then dropped.
// SHA256 trades compatibility for a 64-hex digest of the same key.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// Algorithm names accepted by New.
const (
	Rolling32 = "rolling32"
	SHA256    = "sha256"
)

// ISOLayout renders timestamps the way Date.prototype.toISOString does.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Func computes a fingerprint from the canonical key.
type Func func(key string) string

// New returns the fingerprint function for the named algorithm.
func New(algorithm string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", Rolling32:
		return Hash32, nil
	case SHA256:
		return Digest, nil
	default:
		return nil, fmt.Errorf("fingerprint: unknown algorithm %q", algorithm)
	}
}

// ISO formats t in UTC with millisecond precision.
func ISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Key joins the normalized fields with '|'.
func Key(source, title, url string, publishedAt time.Time) string {
	return source + "|" + title + "|" + url + "|" + ISO(publishedAt)
}

// Hash32 is the rolling hash stringified as a signed decimal.
func Hash32(key string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(key)) {
		h = h*31 + int32(c)
	}
	return strconv.Itoa(int(h))
}

// Digest is the hex-encoded SHA-256 of key.
func Digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
