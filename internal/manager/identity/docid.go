// Package identity derives stable content-addressed document identifiers.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Prefix marks every document ID produced by this generator.
const Prefix = "vb_"

// GenerateID derives the document ID for a (source, collection, chunk index)
// triple. It is a pure function of its inputs: resubmitting the same source
// regenerates the same IDs, so the store treats re-processing as an upsert.
func GenerateID(source, collection string, chunkIndex int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", source, collection, chunkIndex)))
	return Prefix + hex.EncodeToString(sum[:])
}
