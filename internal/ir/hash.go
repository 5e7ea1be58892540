package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content hashes. The version suffix allows the
// algorithm to change without colliding with old hashes.
const (
	DomainScene = "keyframe/scene/v1"
)

// hashWithDomain computes SHA-256(domain + 0x00 + data) as hex.
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SceneHash identifies a scene document by its source bytes. Recorded runs
// carry it so a trace can be matched to the exact scene that produced it.
func SceneHash(src []byte) string {
	return hashWithDomain(DomainScene, src)
}
