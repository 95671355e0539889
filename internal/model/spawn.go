package model

import (
	"strings"
)

// SpawnPayload is the description text handed to a spawn sink. SDF is passed
// through verbatim; sinks never interpret it.
type SpawnPayload struct {
	Source string `json:"source"`
	SDF    string `json:"sdf"`
}

// Empty reports whether the payload carries no description text.
func (p SpawnPayload) Empty() bool {
	return p.SDF == ""
}

// Shape is a primitive keyword accepted by the insert-model panel.
type Shape string

const (
	ShapeBox      Shape = "box"
	ShapeSphere   Shape = "sphere"
	ShapeCylinder Shape = "cylinder"
)

// Shapes lists every recognised keyword in display order.
var Shapes = []Shape{ShapeBox, ShapeSphere, ShapeCylinder}

// ParseShape matches a keyword case-insensitively.
func ParseShape(keyword string) (Shape, bool) {
	s := Shape(strings.ToLower(strings.TrimSpace(keyword)))
	for _, known := range Shapes {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// ShapeNames returns the keywords as plain strings.
func ShapeNames() []string {
	names := make([]string, len(Shapes))
	for i, s := range Shapes {
		names[i] = string(s)
	}
	return names
}
