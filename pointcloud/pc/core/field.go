package core

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Field is an immutable generated point cloud. A shape change produces a new
// Field; existing ones are never modified.
type Field struct {
	ID        uuid.UUID
	Shape     Shape
	Positions []mgl32.Vec3
}

func newField(shape Shape, positions []mgl32.Vec3) *Field {
	return &Field{
		ID:        uuid.New(),
		Shape:     shape,
		Positions: positions,
	}
}

func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Positions)
}

// Validate reports the first non-finite component, if any.
func (f *Field) Validate() error {
	if f == nil || len(f.Positions) == 0 {
		return fmt.Errorf("%w: empty field", ErrInvalidCount)
	}
	for i, p := range f.Positions {
		for axis := 0; axis < 3; axis++ {
			v := float64(p[axis])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("point %d axis %d is not finite (%v)", i, axis, p[axis])
			}
		}
	}
	return nil
}

// Bytes packs the positions as tightly packed little-endian float32 triples,
// the layout of PointVertex.
func (f *Field) Bytes() []byte {
	buf := make([]byte, len(f.Positions)*PointVertexSize)
	for i, p := range f.Positions {
		off := i * PointVertexSize
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(p[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(p[2]))
	}
	return buf
}

// FieldStore holds the field currently used by the renderer. Regeneration
// builds the replacement first and then swaps the pointer, so a reader never
// sees a partially written field.
type FieldStore struct {
	current atomic.Pointer[Field]
	count   int
	gen     func(Shape, int) (*Field, error)
}

func NewFieldStore(count int) *FieldStore {
	return &FieldStore{count: count, gen: Generate}
}

// NewFieldStoreWith uses rng for every regeneration.
func NewFieldStoreWith(rng Rand, count int) *FieldStore {
	return &FieldStore{
		count: count,
		gen: func(s Shape, n int) (*Field, error) {
			return GenerateWith(rng, s, n)
		},
	}
}

// Load returns the current field, or nil before the first successful regeneration.
func (s *FieldStore) Load() *Field {
	return s.current.Load()
}

func (s *FieldStore) Count() int {
	return s.count
}

// Regenerate replaces the current field with a fresh one for shape. On any
// failure the previous field is kept and the error is returned.
func (s *FieldStore) Regenerate(shape Shape) (*Field, error) {
	field, err := s.gen(shape, s.count)
	if err != nil {
		return s.current.Load(), fmt.Errorf("regenerate %s: %w", shape, err)
	}
	if err := field.Validate(); err != nil {
		return s.current.Load(), fmt.Errorf("regenerate %s: %w", shape, err)
	}
	if field.Len() != s.count {
		return s.current.Load(), fmt.Errorf("regenerate %s: got %d points, want %d", shape, field.Len(), s.count)
	}
	s.current.Store(field)
	return field, nil
}
