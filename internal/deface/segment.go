package deface

// AirMask marks every voxel with intensity at or below airHU. On a CT scan
// this selects the exterior air surrounding the patient along with any truly
// empty regions, which is the foreground the component stage operates on.
func AirMask(v *Volume, airHU int16) *Mask {
	m := NewMask(v.Slices, v.Rows, v.Cols)
	for i, hu := range v.Data {
		if hu <= airHU {
			m.Data[i] = 1
		}
	}
	return m
}

// LargestComponent reduces each slice of the mask, independently, to its
// largest 8-connected foreground component. Detached foreground regions
// (table gap, cables, noise speckle) are discarded. Ties on area resolve to
// the component encountered first in row-major order. Slices with no
// foreground at all come back empty; their indices are returned so the
// caller can surface them.
//
// Slices are independent, so the labeling runs on a bounded worker pool.
func LargestComponent(m *Mask, workers int) (*Mask, []int) {
	out := NewMask(m.Slices, m.Rows, m.Cols)
	empty := make([]bool, m.Slices)

	forEachSlice(m.Slices, workers, func(s int) {
		empty[s] = !largestComponent2D(m.Layer(s), out.Layer(s), m.Rows, m.Cols)
	})

	var emptySlices []int
	for s, e := range empty {
		if e {
			emptySlices = append(emptySlices, s)
		}
	}
	return out, emptySlices
}

// largestComponent2D labels src with 8-connectivity and writes only the
// largest component into dst. It reports whether any component was found.
func largestComponent2D(src, dst []uint8, rows, cols int) bool {
	labels := make([]int32, len(src))
	var areas []int // areas[l-1] is the pixel count of label l

	var stack []int32
	next := int32(0)
	for start := range src {
		if src[start] == 0 || labels[start] != 0 {
			continue
		}
		next++
		area := 0
		stack = append(stack[:0], int32(start))
		labels[start] = next
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++
			r := int(p) / cols
			c := int(p) % cols
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nr, nc := r+dr, c+dc
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						continue
					}
					q := int32(nr*cols + nc)
					if src[q] != 0 && labels[q] == 0 {
						labels[q] = next
						stack = append(stack, q)
					}
				}
			}
		}
		areas = append(areas, area)
	}

	if next == 0 {
		return false
	}

	best := int32(1)
	for l := int32(2); l <= next; l++ {
		if areas[l-1] > areas[best-1] {
			best = l
		}
	}
	for i, l := range labels {
		if l == best {
			dst[i] = 1
		}
	}
	return true
}

// LargestComponent3D keeps the single largest 26-connected component of the
// whole volume. This is the explicit volumetric alternative to the per-slice
// default; it produces axially continuous masks at the cost of diverging from
// the original per-slice behavior. An entirely empty mask comes back empty
// along with the indices of all slices.
func LargestComponent3D(m *Mask) (*Mask, []int) {
	out := NewMask(m.Slices, m.Rows, m.Cols)
	labels := make([]int32, len(m.Data))
	var areas []int

	plane := m.Rows * m.Cols
	var stack []int32
	next := int32(0)
	for start := range m.Data {
		if m.Data[start] == 0 || labels[start] != 0 {
			continue
		}
		next++
		area := 0
		stack = append(stack[:0], int32(start))
		labels[start] = next
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++
			s := int(p) / plane
			rem := int(p) % plane
			r := rem / m.Cols
			c := rem % m.Cols
			for ds := -1; ds <= 1; ds++ {
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						if ds == 0 && dr == 0 && dc == 0 {
							continue
						}
						ns, nr, nc := s+ds, r+dr, c+dc
						if ns < 0 || ns >= m.Slices || nr < 0 || nr >= m.Rows || nc < 0 || nc >= m.Cols {
							continue
						}
						q := int32((ns*m.Rows+nr)*m.Cols + nc)
						if m.Data[q] != 0 && labels[q] == 0 {
							labels[q] = next
							stack = append(stack, q)
						}
					}
				}
			}
		}
		areas = append(areas, area)
	}

	if next == 0 {
		all := make([]int, m.Slices)
		for s := range all {
			all[s] = s
		}
		return out, all
	}

	best := int32(1)
	for l := int32(2); l <= next; l++ {
		if areas[l-1] > areas[best-1] {
			best = l
		}
	}
	for i, l := range labels {
		if l == best {
			out.Data[i] = 1
		}
	}

	var emptySlices []int
	for s := 0; s < out.Slices; s++ {
		if layerEmpty(out.Layer(s)) {
			emptySlices = append(emptySlices, s)
		}
	}
	return out, emptySlices
}

func layerEmpty(layer []uint8) bool {
	for _, v := range layer {
		if v != 0 {
			return false
		}
	}
	return true
}
