package dicomio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/ctdeface/internal/deface"
)

// DefaultOutputSuffix is appended to the source directory name when the
// caller does not name a destination.
const DefaultOutputSuffix = "_d"

// Write persists the output volume under destDir, one file per layer in scan
// order. Each layer is inverse-calibrated with its own slice's coefficients
// and written into a copy of that slice's dataset, so metadata and pixel data
// can never pair up with the wrong slice. Partial output may remain on error;
// there is no rollback.
func (s *Scan) Write(vol *deface.Volume, destDir string) error {
	if vol.Slices != len(s.Slices) {
		return fmt.Errorf("volume has %d layers, scan has %d slices", vol.Slices, len(s.Slices))
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for i, sl := range s.Slices {
		path := filepath.Join(destDir, fmt.Sprintf("IMG%04d.dcm", i+1))
		if err := writeSlice(sl, vol.Layer(i), path); err != nil {
			return fmt.Errorf("write slice %d to %s: %w", i, path, err)
		}
	}
	return nil
}

func writeSlice(sl *Slice, layer []int16, path string) error {
	nf := frame.NewNativeFrame[uint16](16, sl.rows, sl.cols, sl.rows*sl.cols, 1)
	for j, hu := range layer {
		// Inverse calibration back to stored values, truncating like
		// the forward conversion does.
		raw := int16((float64(hu) - sl.intercept) / sl.slope)
		nf.RawData[j] = uint16(raw)
	}
	pdi := dicom.PixelDataInfo{
		Frames: []*frame.Frame{{Encapsulated: false, NativeData: nf}},
	}

	ds := sl.Dataset
	elements := make([]*dicom.Element, len(ds.Elements))
	copy(elements, ds.Elements)
	ds.Elements = elements

	replaceElement(&ds, mustNewElement(tag.PixelData, pdi))
	if mm, ok := sl.Thickness(); ok {
		replaceElement(&ds, mustNewElement(tag.SliceThickness, []string{fmt.Sprintf("%.6f", mm)}))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return dicom.Write(f, ds)
}

// replaceElement swaps the dataset element with the same tag, or appends the
// element when the tag is absent.
func replaceElement(ds *dicom.Dataset, el *dicom.Element) {
	for i, existing := range ds.Elements {
		if existing.Tag == el.Tag {
			ds.Elements[i] = el
			return
		}
	}
	ds.Elements = append(ds.Elements, el)
}

// mustNewElement creates a new DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}
