package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// HashID derives the 64-bit constraint id from the declared id string.
// The same string always produces the same id, across processes and
// runs: SHA-256 of the string, first 8 bytes, big-endian.
func HashID(s string) uint64 {
	sum := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint64(sum[:8])
}

// CID computes the content-addressed identifier for this unit.
// Any change to the compiled output changes the CID.
func (u *Unit) CID() string {
	data, err := u.MarshalCanonical()
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return "cid:" + hex.EncodeToString(sum[:])
}

// Equal returns true if two units have the same CID.
func (u *Unit) Equal(other *Unit) bool {
	if other == nil {
		return false
	}
	return u.CID() == other.CID()
}
