package dicomio

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/ctdeface/internal/deface"
)

// LoadScan parses every DICOM file in dir and returns the series sorted
// ascending by axial position, falling back to SliceLocation when any slice
// lacks a position. DICOMDIR index files and dotfiles are skipped.
func LoadScan(dir string) (*Scan, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scan directory: %w", err)
	}

	var slices []*Slice
	for _, e := range entries {
		if e.IsDir() || e.Name() == "DICOMDIR" || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		sl, err := loadSlice(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		slices = append(slices, sl)
	}
	if len(slices) == 0 {
		return nil, &deface.InputIntegrityError{Reason: fmt.Sprintf("no DICOM files in %s", dir)}
	}

	byPosition := true
	for _, sl := range slices {
		if !sl.hasZ {
			byPosition = false
			break
		}
	}
	sort.SliceStable(slices, func(i, j int) bool {
		if byPosition {
			return slices[i].z < slices[j].z
		}
		return slices[i].location < slices[j].location
	})

	return &Scan{Slices: slices}, nil
}

func loadSlice(path string) (*Slice, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipProcessingPixelDataValue())
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	rows, ok := intAttr(ds, tag.Rows)
	if !ok {
		return nil, &deface.InputIntegrityError{Reason: "missing Rows"}
	}
	cols, ok := intAttr(ds, tag.Columns)
	if !ok {
		return nil, &deface.InputIntegrityError{Reason: "missing Columns"}
	}
	bits, ok := intAttr(ds, tag.BitsAllocated)
	if !ok || bits != 16 {
		return nil, &deface.InputIntegrityError{Reason: fmt.Sprintf("unsupported BitsAllocated %d (want 16)", bits)}
	}
	pixelRep, ok := intAttr(ds, tag.PixelRepresentation)
	if !ok {
		pixelRep = 0
	}

	slope, ok := floatAttr(ds, tag.RescaleSlope)
	if !ok {
		return nil, &deface.InputIntegrityError{Reason: "missing RescaleSlope"}
	}
	intercept, ok := floatAttr(ds, tag.RescaleIntercept)
	if !ok {
		return nil, &deface.InputIntegrityError{Reason: "missing RescaleIntercept"}
	}
	if slope == 0 {
		return nil, &deface.InputIntegrityError{Reason: "RescaleSlope is zero"}
	}

	sl := &Slice{
		Path:      path,
		Dataset:   ds,
		rows:      rows,
		cols:      cols,
		slope:     slope,
		intercept: intercept,
	}

	if pos, ok := stringsAttr(ds, tag.ImagePositionPatient); ok && len(pos) >= 3 {
		if z, err := strconv.ParseFloat(strings.TrimSpace(pos[2]), 64); err == nil {
			sl.z = z
			sl.hasZ = true
		}
	}
	if loc, ok := floatAttr(ds, tag.SliceLocation); ok {
		sl.location = loc
		sl.hasLocation = true
	}
	if !sl.hasZ && !sl.hasLocation {
		return nil, &deface.InputIntegrityError{Reason: "slice has neither ImagePositionPatient nor SliceLocation"}
	}

	raw, err := pixelSamples(ds, rows, cols, pixelRep)
	if err != nil {
		return nil, err
	}
	sl.raw = raw
	return sl, nil
}

// pixelSamples decodes the unprocessed PixelData bytes into signed samples.
// Stored CT samples are little-endian 16-bit words, two's complement when
// PixelRepresentation is 1.
func pixelSamples(ds dicom.Dataset, rows, cols, pixelRep int) ([]int16, error) {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, &deface.InputIntegrityError{Reason: "missing PixelData"}
	}
	info := dicom.MustGetPixelDataInfo(el.Value)
	if info.IsEncapsulated {
		return nil, &deface.InputIntegrityError{Reason: "encapsulated (compressed) pixel data is not supported"}
	}
	data := info.UnprocessedValueData
	want := rows * cols * 2
	if len(data) < want {
		return nil, &deface.InputIntegrityError{
			Reason: fmt.Sprintf("pixel data is %d bytes, expected %d", len(data), want),
		}
	}
	if len(data) > want {
		return nil, &deface.InputIntegrityError{Reason: "multi-frame pixel data is not supported"}
	}

	raw := make([]int16, rows*cols)
	for i := range raw {
		word := binary.LittleEndian.Uint16(data[2*i : 2*i+2])
		if pixelRep == 1 {
			raw[i] = int16(word)
		} else if word > 0x7fff {
			// Unsigned sample beyond the signed range; the clinical
			// dynamic range fits well inside int16.
			raw[i] = 0x7fff
		} else {
			raw[i] = int16(word)
		}
	}
	return raw, nil
}

// intAttr returns the first integer value of an attribute.
func intAttr(ds dicom.Dataset, t tag.Tag) (int, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	vals, ok := el.Value.GetValue().([]int)
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// stringsAttr returns the string values of an attribute.
func stringsAttr(ds dicom.Dataset, t tag.Tag) ([]string, bool) {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return nil, false
	}
	vals, ok := el.Value.GetValue().([]string)
	if !ok || len(vals) == 0 {
		return nil, false
	}
	return vals, true
}

// floatAttr parses a decimal-string attribute such as RescaleSlope.
func floatAttr(ds dicom.Dataset, t tag.Tag) (float64, bool) {
	vals, ok := stringsAttr(ds, t)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
