package record

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID generates a short prefixed record identifier, e.g. "app_1f3a9c2d".
func NewID(prefix string) string {
	id := uuid.New()
	return prefix + "_" + hex.EncodeToString(id[:4])
}
