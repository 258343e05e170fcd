package dispatch

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/go-faster/errors"
)

// maxIDAttempts bounds the retry loop when a generated id collides with
// the current snapshot. With 63 random bits a collision is already
// vanishingly unlikely; the bound exists so a broken uniqueness check can
// never spin forever.
const maxIDAttempts = 8

// newProductID generates a positive 63-bit identifier from crypto/rand
// and rejects any value already present according to taken. The remote
// store does not assign product ids, so generation has to be collision
// resistant on the client side.
func newProductID(taken func(id int64) bool) (int64, error) {
	for range maxIDAttempts {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, errors.Wrap(err, "read random bytes")
		}
		id := int64(binary.BigEndian.Uint64(buf[:]) >> 1)
		if id == 0 || taken(id) {
			continue
		}
		return id, nil
	}
	return 0, errors.New("exhausted product id generation attempts")
}
