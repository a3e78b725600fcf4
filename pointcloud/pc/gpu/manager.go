package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	// FrameUniformSize is the padded size of the Frame struct in points.wgsl.
	FrameUniformSize = 256

	HeadroomPositions = 64 * 1024
)

// bufferAllocator is the part of the device the manager allocates through.
type bufferAllocator interface {
	CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) error
	Release(buf *wgpu.Buffer)
}

type deviceAllocator struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

func (d deviceAllocator) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	return d.device.CreateBuffer(desc)
}

func (d deviceAllocator) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) error {
	return d.queue.WriteBuffer(buf, offset, data)
}

func (d deviceAllocator) Release(buf *wgpu.Buffer) {
	buf.Release()
}

// PointBufferManager owns the GPU side of one point layer: its vertex
// buffer, its frame uniforms and the bind group over them.
type PointBufferManager struct {
	Device *wgpu.Device
	Label  string

	PositionBuf *wgpu.Buffer
	FrameBuf    *wgpu.Buffer

	BindGroup0 *wgpu.BindGroup

	PointCount uint32
	uploadedID uuid.UUID

	alloc        bufferAllocator
	positionSize uint64
	frameSize    uint64
}

// NewPointBufferManager allocates through device and writes through queue.
// The caller keeps ownership of both.
func NewPointBufferManager(device *wgpu.Device, queue *wgpu.Queue, label string) *PointBufferManager {
	return &PointBufferManager{
		Device: device,
		Label:  label,
		alloc:  deviceAllocator{device: device, queue: queue},
	}
}

// ensureBuffer writes data into *buf, growing it first when it is too small.
// A replacement buffer is only swapped in after the data reached it, so on
// error *buf and *size still describe the previous, intact buffer.
func (m *PointBufferManager) ensureBuffer(name string, buf **wgpu.Buffer, size *uint64, data []byte, usage wgpu.BufferUsage, headroom int) (bool, error) {
	neededSize := uint64(len(data))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	if *buf != nil && *size >= neededSize {
		if len(data) > 0 {
			if err := m.alloc.WriteBuffer(*buf, 0, data); err != nil {
				return false, fmt.Errorf("write %s: %w", name, err)
			}
		}
		return false, nil
	}

	allocSize := neededSize + uint64(headroom)
	newBuf, err := m.alloc.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            m.Label + " " + name,
		Size:             allocSize,
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return false, fmt.Errorf("create %s (%d bytes): %w", name, allocSize, err)
	}
	if len(data) > 0 {
		if err := m.alloc.WriteBuffer(newBuf, 0, data); err != nil {
			m.alloc.Release(newBuf)
			return false, fmt.Errorf("write %s: %w", name, err)
		}
	}

	if *buf != nil {
		m.alloc.Release(*buf)
	}
	*buf = newBuf
	*size = allocSize
	return true, nil
}

// UploadField copies the field positions into the vertex buffer. It does
// nothing when this field is already resident. Returns true if the buffer was
// recreated. On error the previously uploaded field stays bound and the next
// call retries.
func (m *PointBufferManager) UploadField(field *core.Field) (bool, error) {
	if field == nil || field.ID == m.uploadedID {
		return false, nil
	}
	recreated, err := m.ensureBuffer("PointPositions", &m.PositionBuf, &m.positionSize, field.Bytes(), wgpu.BufferUsageVertex, HeadroomPositions)
	if err != nil {
		return false, err
	}
	m.PointCount = uint32(field.Len())
	m.uploadedID = field.ID
	return recreated, nil
}

// UploadedID is the ID of the field currently in the vertex buffer.
func (m *PointBufferManager) UploadedID() uuid.UUID {
	return m.uploadedID
}

// UpdateFrame writes this frame's uniforms. A recreated uniform buffer drops
// the bind group so the next CreateBindGroups rebinds it.
func (m *PointBufferManager) UpdateFrame(u core.Uniforms, view, proj mgl32.Mat4, width, height uint32) error {
	buf := PackFrame(u, view, proj, width, height)
	recreated, err := m.ensureBuffer("FrameUB", &m.FrameBuf, &m.frameSize, buf, wgpu.BufferUsageUniform, 0)
	if err != nil {
		return err
	}
	if recreated && m.BindGroup0 != nil {
		m.BindGroup0.Release()
		m.BindGroup0 = nil
	}
	return nil
}

// Ready reports whether the layer has everything a draw call needs.
func (m *PointBufferManager) Ready() bool {
	return m.PointCount > 0 && m.PositionBuf != nil && m.BindGroup0 != nil
}

// CreateBindGroups binds the frame uniforms for the points pipeline. Call it
// after the first UpdateFrame.
func (m *PointBufferManager) CreateBindGroups(pipeline *wgpu.RenderPipeline) error {
	if m.FrameBuf == nil {
		return fmt.Errorf("%s: bind group before frame uniforms", m.Label)
	}
	bg, err := m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  m.Label + " BG0",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: m.FrameBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("%s bind group: %w", m.Label, err)
	}
	if m.BindGroup0 != nil {
		m.BindGroup0.Release()
	}
	m.BindGroup0 = bg
	return nil
}

func (m *PointBufferManager) Release() {
	if m.BindGroup0 != nil {
		m.BindGroup0.Release()
		m.BindGroup0 = nil
	}
	if m.PositionBuf != nil {
		m.alloc.Release(m.PositionBuf)
		m.PositionBuf = nil
	}
	if m.FrameBuf != nil {
		m.alloc.Release(m.FrameBuf)
		m.FrameBuf = nil
	}
	m.positionSize, m.frameSize = 0, 0
	m.uploadedID = uuid.Nil
	m.PointCount = 0
}

// PackFrame lays out the uniforms as:
//
//	struct Frame {
//	  view: mat4x4<f32>;     -- 0
//	  proj: mat4x4<f32>;     -- 64
//	  color: vec3<f32>;      -- 128
//	  opacity: f32;          -- 140
//	  viewport: vec2<f32>;   -- 144
//	  time: f32;             -- 152
//	  expansion: f32;        -- 156
//	  size: f32;             -- 160
//	  stillness: f32;        -- 164
//	} -> 176 bytes, padded to 256
func PackFrame(u core.Uniforms, view, proj mgl32.Mat4, width, height uint32) []byte {
	buf := make([]byte, FrameUniformSize)

	writeMat := func(offset int, mat mgl32.Mat4) {
		for i, v := range mat {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}
	putF32 := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}

	writeMat(0, view)
	writeMat(64, proj)

	putF32(128, u.Color.R)
	putF32(132, u.Color.G)
	putF32(136, u.Color.B)
	putF32(140, u.Opacity)

	putF32(144, float32(width))
	putF32(148, float32(height))
	putF32(152, u.Time)
	putF32(156, u.Expansion)
	putF32(160, u.Size)
	putF32(164, u.Stillness)

	return buf
}
