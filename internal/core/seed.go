package core

import (
	"time"

	"github.com/cespare/xxhash/v2"
)

// SessionSeed derives a deterministic RNG seed for a session.
// A non-zero base seed (from --seed) is mixed with the session identifier so
// that concurrent sessions on one server still get distinct sequences.
// A zero base falls back to the current time.
func SessionSeed(base int64, sessionID string) int64 {
	if base == 0 {
		base = time.Now().UnixNano()
	}
	h := xxhash.New()
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(uint64(base) >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(sessionID)
	return int64(h.Sum64() >> 1)
}
