package environment

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// PanoramaImage is a decoded equirectangular panorama with float32 RGBA texels,
// tightly packed row-major.
type PanoramaImage struct {
	Width  int
	Height int
	// Pixels holds Width*Height*4 float32 values (RGBA).
	Pixels []float32
}

// sample returns the bilinearly filtered RGBA value at panorama coordinates
// (u, v) in [0, 1]. u wraps around the longitude seam, v clamps at the poles.
func (p *PanoramaImage) sample(u, v float32) [4]float32 {
	fx := u*float32(p.Width) - 0.5
	fy := (1-v)*float32(p.Height) - 0.5

	x0 := int(fx)
	y0 := int(fy)
	if fx < 0 {
		x0--
	}
	if fy < 0 {
		y0--
	}
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	wrapX := func(x int) int {
		x %= p.Width
		if x < 0 {
			x += p.Width
		}
		return x
	}
	clampY := func(y int) int {
		if y < 0 {
			return 0
		}
		if y >= p.Height {
			return p.Height - 1
		}
		return y
	}

	texel := func(x, y int) [4]float32 {
		i := (y*p.Width + x) * 4
		return [4]float32{p.Pixels[i], p.Pixels[i+1], p.Pixels[i+2], p.Pixels[i+3]}
	}

	t00 := texel(wrapX(x0), clampY(y0))
	t10 := texel(wrapX(x0+1), clampY(y0))
	t01 := texel(wrapX(x0), clampY(y0+1))
	t11 := texel(wrapX(x0+1), clampY(y0+1))

	var out [4]float32
	for c := range out {
		top := t00[c]*(1-tx) + t10[c]*tx
		bottom := t01[c]*(1-tx) + t11[c]*tx
		out[c] = top*(1-ty) + bottom*ty
	}
	return out
}

// BakeFaces projects an equirectangular panorama onto the six cubemap faces on
// the CPU, one worker task per face. Each face is a faceSize*faceSize float32
// RGBA image in +X, -X, +Y, -Y, +Z, -Z order.
//
// Parameters:
//   - panorama: the decoded panorama to project
//   - faceSize: the edge length of each output face in texels
//
// Returns:
//   - [FaceCount][]float32: the six projected faces
//   - error: an error if the panorama or face size is unusable
func BakeFaces(panorama *PanoramaImage, faceSize int) ([FaceCount][]float32, error) {
	var faces [FaceCount][]float32

	if panorama == nil || panorama.Width == 0 || panorama.Height == 0 {
		return faces, fmt.Errorf("panorama is empty")
	}
	if len(panorama.Pixels) != panorama.Width*panorama.Height*4 {
		return faces, fmt.Errorf("panorama pixel count %d does not match %dx%d RGBA",
			len(panorama.Pixels), panorama.Width, panorama.Height)
	}
	if faceSize <= 0 {
		return faces, fmt.Errorf("face size must be positive, got %d", faceSize)
	}

	pool := worker.NewDynamicWorkerPool(FaceCount, FaceCount, 1*time.Second)
	defer pool.Stop()

	// One task per face; a WaitGroup provides the completion barrier since the
	// pool has no per-batch wait.
	var wg sync.WaitGroup
	for face := Face(0); face < FaceCount; face++ {
		wg.Add(1)
		faceCap := face
		pool.SubmitTask(worker.Task{
			ID: int(faceCap),
			Do: func() (any, error) {
				defer wg.Done()
				faces[faceCap] = bakeFace(panorama, faceCap, faceSize)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return faces, nil
}

// bakeFace projects one cubemap face. Texel centers map to face coordinates in
// (-1, 1). The face coordinate is the negated clip-space coordinate of the
// texel, matching the fullscreen-triangle rasterization of the GPU path.
func bakeFace(panorama *PanoramaImage, face Face, faceSize int) []float32 {
	out := make([]float32, faceSize*faceSize*4)
	scale := 2.0 / float32(faceSize)

	for py := 0; py < faceSize; py++ {
		fv := (float32(py)+0.5)*scale - 1
		for px := 0; px < faceSize; px++ {
			fu := 1 - (float32(px)+0.5)*scale

			dir := DirectionForFaceCoords(face, fu, fv)
			u, v := DirectionToEquirectangularUV(dir)
			rgba := panorama.sample(u, v)

			i := (py*faceSize + px) * 4
			out[i] = rgba[0]
			out[i+1] = rgba[1]
			out[i+2] = rgba[2]
			out[i+3] = rgba[3]
		}
	}
	return out
}
