package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Brownie44l1/nutrisense-api/internal/config"
)

// LoadMetadata resolves the model description: values from the sidecar at
// cfg.MetadataPath win, anything missing comes from cfg and the default
// label table. The label count must match the output width.
func LoadMetadata(cfg *config.ModelConfig) (Metadata, error) {
	var metadata Metadata

	if cfg.MetadataPath != "" {
		metaFile, err := os.ReadFile(cfg.MetadataPath)
		if err != nil {
			return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
		}
		if err := json.Unmarshal(metaFile, &metadata); err != nil {
			return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
		}
	}

	if len(metadata.Classes) == 0 {
		metadata.Classes = NewLabelTable(nil)
	}
	if metadata.ImageSize == 0 {
		metadata.ImageSize = cfg.ImageSize
	}
	if len(metadata.InputShape) == 0 {
		size := int64(metadata.ImageSize)
		metadata.InputShape = []int64{1, size, size, channels}
	}
	if len(metadata.OutputShape) == 0 {
		metadata.OutputShape = []int64{1, int64(len(metadata.Classes))}
	}
	if metadata.InputName == "" {
		metadata.InputName = cfg.InputName
	}
	if metadata.OutputName == "" {
		metadata.OutputName = cfg.OutputName
	}
	metadata.ApplySoftmax = metadata.ApplySoftmax || cfg.ApplySoftmax

	if _, size, err := LayoutFromShape(metadata.InputShape); err != nil {
		return Metadata{}, err
	} else if size != metadata.ImageSize {
		return Metadata{}, fmt.Errorf("input shape %v does not match image size %d", metadata.InputShape, metadata.ImageSize)
	}

	width := metadata.OutputShape[len(metadata.OutputShape)-1]
	if err := LabelTable(metadata.Classes).Validate(int(width)); err != nil {
		return Metadata{}, err
	}

	return metadata, nil
}
