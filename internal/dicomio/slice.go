// Package dicomio adapts on-disk DICOM series to the deface pipeline's scan
// source and sink contracts. The pipeline core never sees DICOM; this package
// owns parsing, slice ordering, inverse calibration and write-back.
package dicomio

import (
	"github.com/suyashkumar/dicom"

	"github.com/mrsinham/ctdeface/internal/deface"
)

// Slice is one parsed DICOM file of a scan. It keeps the full dataset so
// write-back reuses the slice's own metadata instead of re-reading and
// re-sorting the source directory.
type Slice struct {
	// Path is the source file the slice was parsed from.
	Path string

	// Dataset is the parsed DICOM dataset, pixel data unprocessed.
	Dataset dicom.Dataset

	raw        []int16
	rows, cols int

	slope, intercept float64

	z    float64
	hasZ bool

	location    float64
	hasLocation bool

	thickness    float64
	hasThickness bool
}

var _ deface.Slice = (*Slice)(nil)

// Raw returns the stored pixel samples in row-major order.
func (s *Slice) Raw() []int16 { return s.raw }

// Dims returns the in-plane dimensions.
func (s *Slice) Dims() (rows, cols int) { return s.rows, s.cols }

// Rescale returns the slice's affine calibration coefficients.
func (s *Slice) Rescale() (slope, intercept float64) { return s.slope, s.intercept }

// Position returns the axial coordinate of ImagePositionPatient.
func (s *Slice) Position() (float64, bool) { return s.z, s.hasZ }

// Location returns the SliceLocation fallback attribute.
func (s *Slice) Location() float64 { return s.location }

// SetThickness records the derived inter-slice spacing; it is written into
// the SliceThickness attribute on write-back.
func (s *Slice) SetThickness(mm float64) {
	s.thickness = mm
	s.hasThickness = true
}

// Thickness returns the recorded spacing, if any.
func (s *Slice) Thickness() (float64, bool) { return s.thickness, s.hasThickness }

// Scan is an ordered DICOM series: slices sorted ascending by axial position
// (slice location when positions are absent). The order is fixed at load time
// and shared by the intensity volume and write-back, layer for layer.
type Scan struct {
	Slices []*Slice
}

// DefaceSlices exposes the scan in the pipeline's input form, same order.
func (s *Scan) DefaceSlices() []deface.Slice {
	out := make([]deface.Slice, len(s.Slices))
	for i, sl := range s.Slices {
		out[i] = sl
	}
	return out
}
