package deface

import (
	"fmt"
	randv2 "math/rand/v2"
)

// Stage identifies one of the eight observable pipeline checkpoints. Load and
// Write belong to the scan source and sink; the pipeline reports the six in
// between and the driver reports the outer two through the same callback.
type Stage int

const (
	StageLoad Stage = iota
	StageNormalize
	StageThreshold
	StageComponent
	StageDilate
	StageSample
	StageSubstitute
	StageWrite
)

// NumStages is the number of pipeline checkpoints.
const NumStages = 8

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load scan"
	case StageNormalize:
		return "normalize intensities"
	case StageThreshold:
		return "threshold exterior"
	case StageComponent:
		return "select component"
	case StageDilate:
		return "expand face region"
	case StageSample:
		return "sample values"
	case StageSubstitute:
		return "substitute voxels"
	case StageWrite:
		return "write scan"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Options drives one pipeline invocation.
type Options struct {
	Config Config

	// Rand is the substitution random source. Nil selects a randomly
	// seeded generator.
	Rand *randv2.Rand

	// Workers bounds the per-slice worker pool; 0 means one per CPU core.
	Workers int

	// Progress, when set, is called once at each completed checkpoint.
	Progress func(Stage)

	// Warn, when set, receives user-visible warnings (replacer fallback,
	// empty slices). Defaults to discarding them.
	Warn func(msg string)
}

// Result carries the pipeline outputs and the intermediate artifacts the
// caller may want for reporting or previews.
type Result struct {
	// Input is the calibrated intensity volume.
	Input *Volume
	// Output is the substituted volume, same shape and calibration domain.
	Output *Volume
	// Exterior is the selected largest-component mask.
	Exterior *Mask
	// Expanded is the dilated mask; every substituted voxel lies under it.
	Expanded *Mask
	// Ring is Expanded minus Exterior, the sampled surface band.
	Ring *Mask
	// Candidates is the resolved substitute palette.
	Candidates []int16
	// EmptySlices lists slices skipped because thresholding found no
	// foreground component on them.
	EmptySlices []int
}

// Run executes the anonymization pipeline over an ordered, position-sorted
// sequence of slices.
func Run(slices []Slice, opts Options) (*Result, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(Stage) {}
	}
	warn := opts.Warn
	if warn == nil {
		warn = func(string) {}
	}

	replacer, err := ParseReplacer(cfg.Replacer)
	if err != nil {
		// Recovered: tissue fallback, but the operator should know.
		warn(err.Error())
	}

	vol, err := BuildVolume(slices)
	if err != nil {
		return nil, err
	}
	progress(StageNormalize)

	air := AirMask(vol, int16(cfg.AirThreshold))
	progress(StageThreshold)

	var exterior *Mask
	var emptySlices []int
	if cfg.Volumetric {
		exterior, emptySlices = LargestComponent3D(air)
	} else {
		exterior, emptySlices = LargestComponent(air, opts.Workers)
	}
	for _, s := range emptySlices {
		warn((&SegmentationEmptyError{Slice: s}).Error() + "; leaving slice untouched")
	}
	progress(StageComponent)

	expanded := Dilate(exterior, cfg.KernelDiameter, opts.Workers)
	ring := Ring(expanded, exterior)
	progress(StageDilate)

	candidates, err := Candidates(replacer, vol, ring, int16(cfg.FaceMinHU), int16(cfg.FaceMaxHU))
	if err != nil {
		return nil, err
	}
	progress(StageSample)

	out, err := Anonymize(vol, expanded, candidates, opts.Rand)
	if err != nil {
		return nil, err
	}
	progress(StageSubstitute)

	return &Result{
		Input:       vol,
		Output:      out,
		Exterior:    exterior,
		Expanded:    expanded,
		Ring:        ring,
		Candidates:  candidates,
		EmptySlices: emptySlices,
	}, nil
}
