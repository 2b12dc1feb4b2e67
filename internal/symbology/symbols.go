// Package symbology assigns marker colours to owners and marker shapes to
// instrument classes. Assignment is positional over the sorted distinct
// values, so it is reproducible for a given set of values and shifts when
// that set changes.
package symbology

import (
	"sort"

	"insarmap/internal/dataprocessing"
)

// Fallbacks for values that were not part of the assignment.
const (
	DefaultColor = "gray"
	DefaultShape = Circle
)

// Shape is a marker shape.
type Shape string

const (
	Circle   Shape = "circle"
	Triangle Shape = "triangle"
	Square   Shape = "square"
	Star     Shape = "star"
	Diamond  Shape = "diamond"
)

// Shapes is the cyclic shape palette.
var Shapes = []Shape{Circle, Triangle, Square, Star, Diamond}

// Sides is the polygon side count used to draw the shape; 0 for a circle.
func (s Shape) Sides() int {
	switch s {
	case Circle:
		return 0
	case Triangle:
		return 3
	case Star:
		return 5
	default:
		return 4
	}
}

// Symbols is one render's colour and shape assignment.
type Symbols struct {
	Colors map[string]string
	Shapes map[string]Shape

	owners  []string
	classes []string
}

// Assign builds the assignment from the distinct values of ownerCol and classCol.
func Assign(t *dataprocessing.Table, ownerCol, classCol string) (*Symbols, error) {
	owners, err := t.Values(ownerCol)
	if err != nil {
		return nil, err
	}
	classes, err := t.Values(classCol)
	if err != nil {
		return nil, err
	}
	return FromValues(owners, classes), nil
}

// FromValues builds the assignment from raw owner and class values.
// Duplicates and empty values are ignored.
func FromValues(owners, classes []string) *Symbols {
	s := &Symbols{
		owners:  distinctSorted(owners),
		classes: distinctSorted(classes),
	}

	palette := Palette(len(s.owners))
	s.Colors = make(map[string]string, len(s.owners))
	for i, owner := range s.owners {
		s.Colors[owner] = palette[i]
	}

	s.Shapes = make(map[string]Shape, len(s.classes))
	for i, class := range s.classes {
		s.Shapes[class] = Shapes[i%len(Shapes)]
	}
	return s
}

// ColorFor returns the owner's colour, or DefaultColor.
func (s *Symbols) ColorFor(owner string) string {
	if c, ok := s.Colors[owner]; ok {
		return c
	}
	return DefaultColor
}

// ShapeFor returns the class's shape, or DefaultShape.
func (s *Symbols) ShapeFor(class string) Shape {
	if sh, ok := s.Shapes[class]; ok {
		return sh
	}
	return DefaultShape
}

// Owners returns the assigned owners in assignment order.
func (s *Symbols) Owners() []string { return append([]string(nil), s.owners...) }

// Classes returns the assigned instrument classes in assignment order.
func (s *Symbols) Classes() []string { return append([]string(nil), s.classes...) }

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
