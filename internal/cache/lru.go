package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Brownie44l1/nutrisense-api/internal/model"
)

// LRU is an in-process Cache bounded by entry count
type LRU struct {
	entries *lru.Cache[string, model.Prediction]
}

func NewLRU(size int) (*LRU, error) {
	entries, err := lru.New[string, model.Prediction](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &LRU{entries: entries}, nil
}

func (c *LRU) Get(_ context.Context, key string) (*model.Prediction, bool, error) {
	p, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *LRU) Set(_ context.Context, key string, p *model.Prediction) error {
	c.entries.Add(key, model.Prediction{
		PredictedClass: p.PredictedClass,
		Confidence:     p.Confidence,
	})
	return nil
}

// Len is the number of cached predictions
func (c *LRU) Len() int {
	return c.entries.Len()
}
