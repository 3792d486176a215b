package model

import (
	"errors"
	"fmt"
)

// ErrLabelMismatch is returned when the label table and the model output
// disagree on the number of classes.
var ErrLabelMismatch = errors.New("label table does not match model output")

// DefaultLabels is the class order the food model was trained with. Output
// unit i of the model is DefaultLabels[i]; reordering this list silently
// corrupts every prediction.
var DefaultLabels = []string{
	"Banku",
	"Plantain",
	"Yam",
	"Etɔ",
	"Fante Kenkey",
	"Fufu",
	"Ga Kenkey",
	"Gob3",
	"Jollof Rice",
	"Kelewele",
	"Kokonte",
	"Plain Rice",
	"Rice Balls",
	"Tuo Zaafi",
	"Waakye",
}

// LabelTable maps output indices to class names
type LabelTable []string

// NewLabelTable copies labels, or DefaultLabels when labels is empty
func NewLabelTable(labels []string) LabelTable {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	t := make(LabelTable, len(labels))
	copy(t, labels)
	return t
}

// Label returns the class name for output index i
func (t LabelTable) Label(i int) (string, error) {
	if i < 0 || i >= len(t) {
		return "", fmt.Errorf("%w: index %d out of range for %d labels", ErrLabelMismatch, i, len(t))
	}
	return t[i], nil
}

// Contains reports whether label is one of the known classes
func (t LabelTable) Contains(label string) bool {
	for _, l := range t {
		if l == label {
			return true
		}
	}
	return false
}

// Validate checks the table against the model's output width
func (t LabelTable) Validate(width int) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty label table", ErrLabelMismatch)
	}
	if len(t) != width {
		return fmt.Errorf("%w: %d labels for %d outputs", ErrLabelMismatch, len(t), width)
	}
	seen := make(map[string]struct{}, len(t))
	for _, l := range t {
		if _, ok := seen[l]; ok {
			return fmt.Errorf("%w: duplicate label %q", ErrLabelMismatch, l)
		}
		seen[l] = struct{}{}
	}
	return nil
}
