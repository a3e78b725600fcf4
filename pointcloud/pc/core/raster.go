package core

import (
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"
)

// Rasterizer draws a field on the CPU with the same contract as the GPU
// pipeline: additive blending, no depth test. It backs headless snapshots.
type Rasterizer struct {
	Width, Height int
	// Supersample renders at N times the resolution and scales down.
	Supersample int
	Background  Color
}

func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{Width: width, Height: height, Supersample: 2}
}

// Render draws field as seen by cam with the given uniforms.
func (r *Rasterizer) Render(field *Field, u Uniforms, cam *Camera) *image.RGBA {
	return r.RenderLayers([]Layer{{Field: field, Uniforms: u}}, cam)
}

// RenderLayers draws every layer into one image. Blending is additive, so
// layer order does not matter.
func (r *Rasterizer) RenderLayers(layers []Layer, cam *Camera) *image.RGBA {
	ss := r.Supersample
	if ss < 1 {
		ss = 1
	}
	w, h := r.Width*ss, r.Height*ss
	acc := make([]float32, w*h*3)
	for i := 0; i < w*h; i++ {
		acc[i*3] = r.Background.R
		acc[i*3+1] = r.Background.G
		acc[i*3+2] = r.Background.B
	}

	if w > 0 && h > 0 {
		view := cam.ViewMatrix()
		proj := cam.ProjectionMatrix(float32(r.Width) / float32(r.Height))
		for _, layer := range layers {
			if layer.Field == nil {
				continue
			}
			u := layer.Uniforms
			for _, p := range layer.Field.Positions {
				sp, ok := ProjectSprite(TransformPoint(p, u), u.Size, view, proj, w, h)
				if !ok {
					continue
				}
				sp.Size = math32.Min(sp.Size*float32(ss), MaxPointSize*float32(ss))
				splat(acc, w, h, sp, u)
			}
		}
	}

	full := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		full.Pix[i*4] = to8(acc[i*3])
		full.Pix[i*4+1] = to8(acc[i*3+1])
		full.Pix[i*4+2] = to8(acc[i*3+2])
		full.Pix[i*4+3] = 255
	}
	if ss == 1 {
		return full
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), full, full.Bounds(), draw.Src, nil)
	return out
}

// splat blends one sprite into acc with src*alpha + dst.
func splat(acc []float32, w, h int, sp Sprite, u Uniforms) {
	half := sp.Size / 2
	x0 := int(math32.Floor(sp.X - half))
	y0 := int(math32.Floor(sp.Y - half))
	x1 := int(math32.Ceil(sp.X + half))
	y1 := int(math32.Ceil(sp.Y + half))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}

	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			// sprite UV in [0,1], centered at 0.5
			cu := (float32(px)+0.5-(sp.X-half))/sp.Size - 0.5
			cv := (float32(py)+0.5-(sp.Y-half))/sp.Size - 0.5
			rgb, alpha, ok := ShadeFragment(math32.Sqrt(cu*cu+cv*cv), u)
			if !ok {
				continue
			}
			i := (py*w + px) * 3
			acc[i] += rgb[0] * alpha
			acc[i+1] += rgb[1] * alpha
			acc[i+2] += rgb[2] * alpha
		}
	}
}
