package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// optsDigestLen is the number of hex digits of the options digest kept in a
// key. Option sets are few, so a short digest cannot collide in practice.
const optsDigestLen = 16

// Hash returns the hex SHA-256 of data. Callers hash the canonical netlist
// text so that formatting changes map to the same entries.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// entryKey builds "kind:netlistHash:optsDigest". The netlist hash stays
// readable so entries of one netlist can be found by prefix.
func entryKey(kind, netlistHash string, opts any) string {
	data, _ := json.Marshal(opts)
	return kind + ":" + netlistHash + ":" + Hash(data)[:optsDigestLen]
}
