// Package render rasterizes chart specs.
package render

import (
	"errors"
	"fmt"

	"github.com/mwiater/langbench/internal/charts"
	"github.com/mwiater/langbench/internal/logging"
)

// ErrEmptySpec is returned for specs that have no series to draw.
var ErrEmptySpec = errors.New("chart spec has no series")

// Renderer turns one spec into encoded image bytes.
type Renderer interface {
	Render(spec charts.Spec) ([]byte, error)
}

// Image is a rendered chart ready to be written under its filename.
type Image struct {
	Filename string
	Data     []byte
}

// RenderAll renders every non-empty spec in order. The first failure aborts.
func RenderAll(r Renderer, specs []charts.Spec) ([]Image, error) {
	images := make([]Image, 0, len(specs))
	for _, spec := range specs {
		if spec.Empty {
			logging.LogEvent("[RENDER] skipping %s: no data", spec.Filename)
			continue
		}
		data, err := r.Render(spec)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", spec.Filename, err)
		}
		images = append(images, Image{Filename: spec.Filename, Data: data})
	}
	return images, nil
}
