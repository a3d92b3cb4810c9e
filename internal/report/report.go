// Package report summarizes a de-identification run for the operator.
package report

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/mrsinham/ctdeface/internal/deface"
)

// Summary describes what a pipeline run replaced and with what.
type Summary struct {
	// Voxels is the total voxel count of the volume.
	Voxels int
	// Replaced is the number of voxels under the expanded mask.
	Replaced int
	// PaletteSize is the number of distinct candidate values.
	PaletteSize int
	// PaletteMean and PaletteStdDev describe the candidate palette in HU.
	PaletteMean   float64
	PaletteStdDev float64
	// EmptySlices is the number of slices skipped by segmentation.
	EmptySlices int
}

// Summarize computes the run summary from a pipeline result.
func Summarize(res *deface.Result) Summary {
	vals := make([]float64, len(res.Candidates))
	for i, v := range res.Candidates {
		vals[i] = float64(v)
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if len(vals) < 2 {
		std = 0
		if len(vals) == 1 {
			mean = vals[0]
		} else {
			mean = 0
		}
	}
	return Summary{
		Voxels:        len(res.Output.Data),
		Replaced:      res.Expanded.Count(),
		PaletteSize:   len(res.Candidates),
		PaletteMean:   mean,
		PaletteStdDev: std,
		EmptySlices:   len(res.EmptySlices),
	}
}

// Fprint writes the summary in the tool's plain progress style.
func (s Summary) Fprint(w io.Writer) {
	frac := 0.0
	if s.Voxels > 0 {
		frac = float64(s.Replaced) / float64(s.Voxels) * 100
	}
	fmt.Fprintf(w, "Replaced %d of %d voxels (%.1f%%)\n", s.Replaced, s.Voxels, frac)
	fmt.Fprintf(w, "Palette: %d values, mean %.1f HU, stddev %.1f HU\n",
		s.PaletteSize, s.PaletteMean, s.PaletteStdDev)
	if s.EmptySlices > 0 {
		fmt.Fprintf(w, "Skipped %d slices with no foreground component\n", s.EmptySlices)
	}
}
