package dicomio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/ctdeface/internal/deface"
)

const ctSOPClassUID = "1.2.840.10008.5.1.4.1.1.2"

var fixtureInstance int

// fixtureSlice describes one synthetic slice written by writeFixtureSlice.
type fixtureSlice struct {
	rows, cols int
	raw        []int16
	slope      string // DS attribute, "" omits
	intercept  string
	position   string // axial coordinate as DS, "" omits ImagePositionPatient
	location   string // SliceLocation as DS, "" omits
}

// writeFixtureSlice forges a minimal uncompressed CT slice at path.
func writeFixtureSlice(t *testing.T, path string, fx fixtureSlice) {
	t.Helper()
	fixtureInstance++

	nf := frame.NewNativeFrame[uint16](16, fx.rows, fx.cols, fx.rows*fx.cols, 1)
	for i, v := range fx.raw {
		nf.RawData[i] = uint16(v)
	}
	pdi := dicom.PixelDataInfo{
		Frames: []*frame.Frame{{Encapsulated: false, NativeData: nf}},
	}

	elements := []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(tag.SOPClassUID, []string{ctSOPClassUID}),
		mustNewElement(tag.SOPInstanceUID, []string{fmt.Sprintf("1.2.826.0.1.3680043.2.1125.%d", fixtureInstance)}),
		mustNewElement(tag.Modality, []string{"CT"}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.Rows, []int{fx.rows}),
		mustNewElement(tag.Columns, []int{fx.cols}),
		mustNewElement(tag.BitsAllocated, []int{16}),
		mustNewElement(tag.BitsStored, []int{16}),
		mustNewElement(tag.HighBit, []int{15}),
		mustNewElement(tag.PixelRepresentation, []int{1}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
	}
	if fx.slope != "" {
		elements = append(elements, mustNewElement(tag.RescaleSlope, []string{fx.slope}))
	}
	if fx.intercept != "" {
		elements = append(elements, mustNewElement(tag.RescaleIntercept, []string{fx.intercept}))
	}
	if fx.position != "" {
		elements = append(elements, mustNewElement(tag.ImagePositionPatient, []string{"0.0", "0.0", fx.position}))
	}
	if fx.location != "" {
		elements = append(elements, mustNewElement(tag.SliceLocation, []string{fx.location}))
	}
	elements = append(elements, mustNewElement(tag.PixelData, pdi))

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := dicom.Write(f, dicom.Dataset{Elements: elements}); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

// rampRaw returns n stored samples offset+0..offset+n-1.
func rampRaw(n int, offset int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = offset + int16(i)
	}
	return out
}

// writeFixtureSeries forges one slice per entry, with file names in reverse
// axial order so ordering bugs cannot hide behind directory listing order.
func writeFixtureSeries(t *testing.T, dir string, fixtures []fixtureSlice) {
	t.Helper()
	for i, fx := range fixtures {
		name := fmt.Sprintf("IMG%04d.dcm", len(fixtures)-i)
		writeFixtureSlice(t, filepath.Join(dir, name), fx)
	}
}

func TestLoadScan_SortsByPosition(t *testing.T) {
	dir := t.TempDir()
	writeFixtureSeries(t, dir, []fixtureSlice{
		{rows: 2, cols: 2, raw: rampRaw(4, 400), slope: "1", intercept: "-1024", position: "5.0", location: "5.0"},
		{rows: 2, cols: 2, raw: rampRaw(4, 0), slope: "1", intercept: "-1024", position: "0.0", location: "0.0"},
		{rows: 2, cols: 2, raw: rampRaw(4, 200), slope: "1", intercept: "-1024", position: "2.5", location: "2.5"},
	})

	scan, err := LoadScan(dir)
	if err != nil {
		t.Fatalf("LoadScan failed: %v", err)
	}
	if len(scan.Slices) != 3 {
		t.Fatalf("loaded %d slices, want 3", len(scan.Slices))
	}
	for i, wantFirst := range []int16{0, 200, 400} {
		sl := scan.Slices[i]
		if got := sl.Raw()[0]; got != wantFirst {
			t.Errorf("slice %d first sample = %d, want %d", i, got, wantFirst)
		}
		z, ok := sl.Position()
		if !ok {
			t.Fatalf("slice %d has no position", i)
		}
		if want := float64(i) * 2.5; z != want {
			t.Errorf("slice %d position = %v, want %v", i, z, want)
		}
	}
}

func TestLoadScan_SliceAttributes(t *testing.T) {
	dir := t.TempDir()
	writeFixtureSlice(t, filepath.Join(dir, "IMG0001.dcm"), fixtureSlice{
		rows: 3, cols: 4, raw: rampRaw(12, -50),
		slope: "2.0", intercept: "-1024.0", position: "12.5", location: "12.5",
	})

	scan, err := LoadScan(dir)
	if err != nil {
		t.Fatalf("LoadScan failed: %v", err)
	}
	sl := scan.Slices[0]
	if r, c := sl.Dims(); r != 3 || c != 4 {
		t.Errorf("dims = %dx%d, want 3x4", r, c)
	}
	if slope, intercept := sl.Rescale(); slope != 2.0 || intercept != -1024.0 {
		t.Errorf("rescale = %v/%v, want 2/-1024", slope, intercept)
	}
	if got := sl.Raw()[0]; got != -50 {
		t.Errorf("first sample = %d, want -50 (signed decode)", got)
	}
	if got := sl.Location(); got != 12.5 {
		t.Errorf("location = %v, want 12.5", got)
	}
}

func TestLoadScan_LocationFallback(t *testing.T) {
	dir := t.TempDir()
	writeFixtureSeries(t, dir, []fixtureSlice{
		{rows: 2, cols: 2, raw: rampRaw(4, 100), slope: "1", intercept: "0", location: "3.0"},
		{rows: 2, cols: 2, raw: rampRaw(4, 0), slope: "1", intercept: "0", location: "0.0"},
	})

	scan, err := LoadScan(dir)
	if err != nil {
		t.Fatalf("LoadScan failed: %v", err)
	}
	if got := scan.Slices[0].Raw()[0]; got != 0 {
		t.Errorf("first slice sample = %d, want the location-0 slice", got)
	}
	if got := scan.Slices[1].Raw()[0]; got != 100 {
		t.Errorf("second slice sample = %d, want the location-3 slice", got)
	}
}

func TestLoadScan_SkipsIndexAndDotfiles(t *testing.T) {
	dir := t.TempDir()
	writeFixtureSlice(t, filepath.Join(dir, "IMG0001.dcm"), fixtureSlice{
		rows: 2, cols: 2, raw: rampRaw(4, 0), slope: "1", intercept: "0", position: "0.0",
	})
	for _, name := range []string{"DICOMDIR", ".DS_Store"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("not a slice"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	scan, err := LoadScan(dir)
	if err != nil {
		t.Fatalf("LoadScan failed: %v", err)
	}
	if len(scan.Slices) != 1 {
		t.Errorf("loaded %d slices, want 1", len(scan.Slices))
	}
}

func TestLoadScan_Rejections(t *testing.T) {
	tests := []struct {
		name string
		fx   fixtureSlice
	}{
		{"missing slope", fixtureSlice{rows: 2, cols: 2, raw: rampRaw(4, 0), intercept: "0", position: "0.0"}},
		{"missing intercept", fixtureSlice{rows: 2, cols: 2, raw: rampRaw(4, 0), slope: "1", position: "0.0"}},
		{"zero slope", fixtureSlice{rows: 2, cols: 2, raw: rampRaw(4, 0), slope: "0", intercept: "0", position: "0.0"}},
		{"no position or location", fixtureSlice{rows: 2, cols: 2, raw: rampRaw(4, 0), slope: "1", intercept: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFixtureSlice(t, filepath.Join(dir, "IMG0001.dcm"), tt.fx)
			_, err := LoadScan(dir)
			var integrity *deface.InputIntegrityError
			if !errors.As(err, &integrity) {
				t.Errorf("error = %v, want *InputIntegrityError", err)
			}
		})
	}
}

func TestLoadScan_EmptyDirectory(t *testing.T) {
	_, err := LoadScan(t.TempDir())
	var integrity *deface.InputIntegrityError
	if !errors.As(err, &integrity) {
		t.Errorf("error = %v, want *InputIntegrityError", err)
	}
}

func TestLoadScan_MissingDirectory(t *testing.T) {
	if _, err := LoadScan(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("missing directory must be reported")
	}
}
