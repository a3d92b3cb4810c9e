package deface

// diskKernel returns the row/col offsets of a circular structuring element of
// the given diameter: every cell whose center lies within diameter/2 of the
// element center. A diameter of 3 therefore covers the full 3x3 neighborhood,
// a diameter of 35 a 35-pixel-wide disk.
func diskKernel(diameter int) [][2]int {
	r := diameter / 2
	limit := float64(diameter) * float64(diameter) / 4
	var offsets [][2]int
	for dr := -r; dr <= r; dr++ {
		for dc := -r; dc <= r; dc++ {
			if float64(dr*dr+dc*dc) <= limit {
				offsets = append(offsets, [2]int{dr, dc})
			}
		}
	}
	return offsets
}

// Dilate grows each slice's mask outward with a circular structuring element
// of the given diameter. Dilation never unsets a voxel, so the input mask is
// always contained in the result. Each slice dilates independently on a
// bounded worker pool; empty layers stay empty.
func Dilate(m *Mask, diameter, workers int) *Mask {
	if diameter < 1 {
		diameter = 1
	}
	kernel := diskKernel(diameter)
	out := NewMask(m.Slices, m.Rows, m.Cols)

	forEachSlice(m.Slices, workers, func(s int) {
		dilateLayer(m.Layer(s), out.Layer(s), m.Rows, m.Cols, kernel)
	})
	return out
}

func dilateLayer(src, dst []uint8, rows, cols int, kernel [][2]int) {
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if src[r*cols+c] == 0 {
				continue
			}
			for _, off := range kernel {
				nr, nc := r+off[0], c+off[1]
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				dst[nr*cols+nc] = 1
			}
		}
	}
}

// Ring returns expanded AND NOT original: the band the dilation added. With
// the exterior component as the original mask this band runs just inside the
// body surface and approximates the skin and subcutaneous layer.
func Ring(expanded, original *Mask) *Mask {
	ring := NewMask(expanded.Slices, expanded.Rows, expanded.Cols)
	for i := range expanded.Data {
		if expanded.Data[i] != 0 && original.Data[i] == 0 {
			ring.Data[i] = 1
		}
	}
	return ring
}
