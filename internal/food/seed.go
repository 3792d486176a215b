package food

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalog struct {
	Foods []Food `yaml:"foods"`
}

// LoadCatalog reads foods from a YAML file with a top-level "foods" list
func LoadCatalog(path string) ([]Food, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read food catalog: %w", err)
	}

	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse food catalog: %w", err)
	}

	for i, f := range c.Foods {
		if f.Name == "" {
			return nil, fmt.Errorf("food catalog entry %d has no name", i)
		}
	}
	return c.Foods, nil
}

// Seed fills an empty catalog from the YAML file at path and returns the
// number of foods inserted. A catalog that already has rows is left alone.
func Seed(ctx context.Context, repo Repository, path string) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	foods, err := LoadCatalog(path)
	if err != nil {
		return 0, err
	}

	for i := range foods {
		if err := repo.Create(ctx, &foods[i]); err != nil {
			return i, err
		}
	}
	return len(foods), nil
}
