package game

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint returns a hex-encoded SHA-256 digest of a seating. It is
// order-sensitive: each player name is length-prefixed before hashing, so no
// combination of names can collide with a differently-split sequence.
func Fingerprint(seating Seating) string {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte
	for _, player := range seating {
		n := binary.PutUvarint(buf[:], uint64(len(player)))
		h.Write(buf[:n])
		h.Write([]byte(player))
	}
	return hex.EncodeToString(h.Sum(nil))
}
