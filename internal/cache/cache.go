package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/Brownie44l1/nutrisense-api/internal/model"
)

// Cache stores predictions by upload content. Inference is deterministic,
// so identical bytes always map to the same prediction.
type Cache interface {
	Get(ctx context.Context, key string) (*model.Prediction, bool, error)
	Set(ctx context.Context, key string, p *model.Prediction) error
}

// Key returns the hex SHA-256 of an upload
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
