// Package preview renders volume slices as PNG images for quick visual QC of
// a de-identification run. Not part of the data contract.
package preview

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/mrsinham/ctdeface/internal/deface"
)

// Soft-tissue display window, the same preset a CT console would use.
const (
	windowCenter = 40.0
	windowWidth  = 400.0
)

// maxEdge bounds the longer edge of the rendered image.
const maxEdge = 512

// Render windows one slice of the volume into an 8-bit grayscale image,
// downscaled so its longer edge is at most 512 px.
func Render(vol *deface.Volume, slice int) (image.Image, error) {
	if slice < 0 || slice >= vol.Slices {
		return nil, fmt.Errorf("slice %d out of range [0,%d)", slice, vol.Slices)
	}

	lo := windowCenter - windowWidth/2
	img := image.NewGray(image.Rect(0, 0, vol.Cols, vol.Rows))
	layer := vol.Layer(slice)
	for i, hu := range layer {
		v := (float64(hu) - lo) / windowWidth * 255
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		img.Pix[i] = uint8(v)
	}

	if vol.Cols <= maxEdge && vol.Rows <= maxEdge {
		return img, nil
	}

	w, h := vol.Cols, vol.Rows
	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	scaled := image.NewGray(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	return scaled, nil
}

// WritePNG renders a slice and writes it to path.
func WritePNG(vol *deface.Volume, slice int, path string) error {
	img, err := Render(vol, slice)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}
