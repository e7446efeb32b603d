package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metadata describes the exported model: tensor shapes, the square
// input size the training pipeline resized to, and the class names.
// It is written next to the .onnx file by the export script.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	ImageSize   int      `json:"image_size"`
	Classes     []string `json:"classes"`
}

// InputSize is the number of float32 values one input tensor holds.
func (m Metadata) InputSize() int {
	size := 1
	for _, dim := range m.InputShape {
		size *= int(dim)
	}
	return size
}

func readMetadata(path string) (Metadata, error) {
	var metadata Metadata

	raw, err := os.ReadFile(path)
	if err != nil {
		return metadata, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return metadata, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if len(metadata.InputShape) == 0 || len(metadata.OutputShape) == 0 {
		return metadata, fmt.Errorf("metadata %s is missing tensor shapes", path)
	}

	return metadata, nil
}
