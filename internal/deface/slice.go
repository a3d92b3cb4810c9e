package deface

// Slice is one axial layer of a scan as seen by the pipeline. Implementations
// live in the scan source (internal/dicomio supplies the DICOM one); tests use
// lightweight in-memory slices. The sequence handed to the pipeline must
// already be sorted ascending by axial position, which is the scan source's
// responsibility, so that write-back can pair each output layer with the slice
// it came from without re-deriving an order.
type Slice interface {
	// Raw returns the stored pixel samples in row-major order.
	Raw() []int16

	// Dims returns the in-plane dimensions.
	Dims() (rows, cols int)

	// Rescale returns the affine calibration coefficients. Calibrated
	// intensity is raw*slope + intercept.
	Rescale() (slope, intercept float64)

	// Position returns the axial (z) coordinate of the slice's 3-D
	// position, and false when the slice carries no position.
	Position() (float64, bool)

	// Location returns the scalar slice-location attribute used as an
	// ordering and spacing fallback when positions are unavailable.
	Location() float64

	// SetThickness records the inter-slice spacing derived during
	// normalization for downstream consumers.
	SetThickness(mm float64)
}

// OutsideScanRaw is the sentinel stored value some scanners use for samples
// outside the reconstruction circle. It is mapped to zero before calibration.
const OutsideScanRaw = -2000
