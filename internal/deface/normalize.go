package deface

import (
	"fmt"
	"math"
)

// BuildVolume converts an ordered sequence of slices into a calibrated
// intensity volume, one layer per slice in the given order. The sentinel
// outside-of-scan raw value maps to zero before calibration, and calibrated
// intensities are clamped to the int16 range. As a side effect the derived
// inter-slice spacing is recorded on every slice.
func BuildVolume(slices []Slice) (*Volume, error) {
	if len(slices) < 2 {
		return nil, &InputIntegrityError{Reason: fmt.Sprintf("need at least 2 slices, got %d", len(slices))}
	}

	rows, cols := slices[0].Dims()
	if rows <= 0 || cols <= 0 {
		return nil, &InputIntegrityError{Reason: fmt.Sprintf("slice 0 has degenerate dimensions %dx%d", rows, cols)}
	}
	for i, s := range slices {
		r, c := s.Dims()
		if r != rows || c != cols {
			return nil, &InputIntegrityError{
				Reason: fmt.Sprintf("slice %d is %dx%d, expected %dx%d", i, r, c, rows, cols),
			}
		}
		if len(s.Raw()) != r*c {
			return nil, &InputIntegrityError{
				Reason: fmt.Sprintf("slice %d has %d samples, expected %d", i, len(s.Raw()), r*c),
			}
		}
		if slope, _ := s.Rescale(); slope == 0 {
			return nil, &InputIntegrityError{Reason: fmt.Sprintf("slice %d has zero rescale slope", i)}
		}
	}

	thickness, err := sliceThickness(slices[0], slices[1])
	if err != nil {
		return nil, err
	}
	for _, s := range slices {
		s.SetThickness(thickness)
	}

	vol := NewVolume(len(slices), rows, cols)
	for i, s := range slices {
		slope, intercept := s.Rescale()
		layer := vol.Layer(i)
		for j, raw := range s.Raw() {
			v := float64(raw)
			if raw == OutsideScanRaw {
				v = 0
			}
			layer[j] = clampHU(v*slope + intercept)
		}
	}
	return vol, nil
}

// sliceThickness derives the inter-slice spacing from the first two slices,
// preferring 3-D positions and falling back to the scalar location attribute.
func sliceThickness(a, b Slice) (float64, error) {
	za, oka := a.Position()
	zb, okb := b.Position()
	if oka && okb {
		return math.Abs(za - zb), nil
	}
	d := math.Abs(a.Location() - b.Location())
	if d == 0 && !(oka && okb) {
		// Two slices at the same location with no positions to
		// disambiguate them cannot yield a spacing.
		return 0, &InputIntegrityError{Reason: "cannot derive slice spacing: no distinct positions or locations"}
	}
	return d, nil
}

func clampHU(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
