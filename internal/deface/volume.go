package deface

// Volume is a calibrated intensity volume in Hounsfield units, stored
// slice-major: Data[s*Rows*Cols + r*Cols + c].
type Volume struct {
	Data   []int16
	Slices int
	Rows   int
	Cols   int
}

// NewVolume allocates a zeroed volume with the given shape.
func NewVolume(slices, rows, cols int) *Volume {
	return &Volume{
		Data:   make([]int16, slices*rows*cols),
		Slices: slices,
		Rows:   rows,
		Cols:   cols,
	}
}

// Layer returns the samples of slice s as a view into the volume.
func (v *Volume) Layer(s int) []int16 {
	n := v.Rows * v.Cols
	return v.Data[s*n : (s+1)*n]
}

// At returns the intensity at (slice, row, col).
func (v *Volume) At(s, r, c int) int16 {
	return v.Data[(s*v.Rows+r)*v.Cols+c]
}

// Clone returns a deep copy of the volume.
func (v *Volume) Clone() *Volume {
	out := &Volume{
		Data:   make([]int16, len(v.Data)),
		Slices: v.Slices,
		Rows:   v.Rows,
		Cols:   v.Cols,
	}
	copy(out.Data, v.Data)
	return out
}

// Mask is a binary volume of the same shape as the intensity volume it was
// derived from. Voxels are 0 or 1.
type Mask struct {
	Data   []uint8
	Slices int
	Rows   int
	Cols   int
}

// NewMask allocates a zeroed mask with the given shape.
func NewMask(slices, rows, cols int) *Mask {
	return &Mask{
		Data:   make([]uint8, slices*rows*cols),
		Slices: slices,
		Rows:   rows,
		Cols:   cols,
	}
}

// Layer returns the voxels of slice s as a view into the mask.
func (m *Mask) Layer(s int) []uint8 {
	n := m.Rows * m.Cols
	return m.Data[s*n : (s+1)*n]
}

// At returns the voxel at (slice, row, col).
func (m *Mask) At(s, r, c int) uint8 {
	return m.Data[(s*m.Rows+r)*m.Cols+c]
}

// Count returns the number of set voxels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Contains reports whether every voxel set in other is also set in m.
func (m *Mask) Contains(other *Mask) bool {
	for i, v := range other.Data {
		if v != 0 && m.Data[i] == 0 {
			return false
		}
	}
	return true
}

// SameShape reports whether m and other have identical dimensions.
func (m *Mask) SameShape(other *Mask) bool {
	return m.Slices == other.Slices && m.Rows == other.Rows && m.Cols == other.Cols
}
