package core

import (
	"errors"
	"fmt"
	"strings"
)

// Shape selects one of the fixed point-cloud distributions.
type Shape int

const (
	ShapeHeart Shape = iota
	ShapeFlower
	ShapeSaturn
	ShapeZen
	ShapeFireworks
	ShapeSpiral

	shapeCount
)

var ErrUnknownShape = errors.New("unknown shape")

var shapeNames = [shapeCount]string{
	ShapeHeart:     "Heart",
	ShapeFlower:    "Flower",
	ShapeSaturn:    "Saturn",
	ShapeZen:       "Zen",
	ShapeFireworks: "Fireworks",
	ShapeSpiral:    "Spiral",
}

// Shapes returns the catalog in display order.
func Shapes() []Shape {
	res := make([]Shape, 0, shapeCount)
	for s := ShapeHeart; s < shapeCount; s++ {
		res = append(res, s)
	}
	return res
}

func (s Shape) Valid() bool {
	return s >= ShapeHeart && s < shapeCount
}

func (s Shape) String() string {
	if s == ShapeAmbient {
		return "Ambient"
	}
	if !s.Valid() {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape resolves a shape by name, ignoring case and surrounding space.
func ParseShape(name string) (Shape, error) {
	n := strings.TrimSpace(name)
	for s := ShapeHeart; s < shapeCount; s++ {
		if strings.EqualFold(shapeNames[s], n) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// MarshalText lets shapes round-trip through TOML/YAML/JSON configs.
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}
	return []byte(shapeNames[s]), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
