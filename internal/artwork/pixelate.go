package artwork

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

const (
	// MaxEdge caps the output's long edge.
	MaxEdge = 512
	// BlockFactor is the per-axis downscale divisor that sets the visible
	// block size.
	BlockFactor = 8
)

// Pixelate runs the two-stage nearest-neighbor resample: downscale by factor,
// then upscale back to the target size. No smoothing in either stage, so
// color blocks stay flat and edges stay hard.
func Pixelate(src image.Image, maxEdge, factor int) image.Image {
	bounds := src.Bounds()
	tw, th := targetSize(bounds.Dx(), bounds.Dy(), maxEdge)

	dw := tw / factor
	if dw < 1 {
		dw = 1
	}
	dh := th / factor
	if dh < 1 {
		dh = 1
	}

	small := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.NearestNeighbor.Scale(small, small.Bounds(), src, bounds, xdraw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return out
}

// targetSize caps the long edge at maxEdge, preserving aspect ratio. Images
// already inside the cap keep their size.
func targetSize(w, h, maxEdge int) (int, int) {
	long := w
	if h > w {
		long = h
	}
	if long <= maxEdge {
		return w, h
	}
	if w >= h {
		return maxEdge, atLeastOne((h*maxEdge + w/2) / w)
	}
	return atLeastOne((w*maxEdge + h/2) / h), maxEdge
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
