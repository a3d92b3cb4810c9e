package deface

// memSlice is an in-memory Slice implementation for pipeline tests.
type memSlice struct {
	raw        []int16
	rows, cols int

	slope, intercept float64

	z    float64
	hasZ bool
	loc  float64

	thickness float64
}

func (s *memSlice) Raw() []int16                { return s.raw }
func (s *memSlice) Dims() (int, int)            { return s.rows, s.cols }
func (s *memSlice) Rescale() (float64, float64) { return s.slope, s.intercept }
func (s *memSlice) Position() (float64, bool)   { return s.z, s.hasZ }
func (s *memSlice) Location() float64           { return s.loc }
func (s *memSlice) SetThickness(mm float64)     { s.thickness = mm }

// flatSlice returns a rows x cols slice filled with fill, identity
// calibration, positioned at z.
func flatSlice(rows, cols int, fill int16, z float64) *memSlice {
	raw := make([]int16, rows*cols)
	for i := range raw {
		raw[i] = fill
	}
	return &memSlice{
		raw:   raw,
		rows:  rows,
		cols:  cols,
		slope: 1,
		z:     z,
		hasZ:  true,
	}
}

// setBlock writes v into the rectangle [r0,r1) x [c0,c1) of a slice.
func setBlock(s *memSlice, r0, r1, c0, c1 int, v int16) {
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			s.raw[r*s.cols+c] = v
		}
	}
}

// faceScan builds the canonical synthetic scan: three 10x10 slices of air
// (-1024) with a centered 4x4 block of 40 on the middle slice.
func faceScan() []Slice {
	s0 := flatSlice(10, 10, -1024, 0)
	s1 := flatSlice(10, 10, -1024, 2.5)
	s2 := flatSlice(10, 10, -1024, 5)
	setBlock(s1, 3, 7, 3, 7, 40)
	return []Slice{s0, s1, s2}
}
