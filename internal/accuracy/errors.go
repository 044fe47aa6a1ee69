package accuracy

import (
	"fmt"
	"strings"
)

// MalformedDatasetError reports input that cannot be turned into a Dataset.
type MalformedDatasetError struct {
	Path     string
	Line     int
	Language string
	Column   string
	Reason   string
}

func (e *MalformedDatasetError) Error() string {
	parts := []string{"malformed dataset"}
	if e.Path != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.Path, e.Line))
		} else {
			parts = append(parts, e.Path)
		}
	}
	if e.Language != "" {
		parts = append(parts, fmt.Sprintf("language=%q", e.Language))
	}
	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column=%q", e.Column))
	}
	return strings.Join(parts, " ") + ": " + e.Reason
}
