package deface

import randv2 "math/rand/v2"

// Anonymize returns a copy of the volume with every voxel under the expanded
// mask overwritten by a value drawn uniformly, with replacement, from the
// candidate set. Voxels outside the mask are untouched. The random source is
// the caller's; pass a seeded generator for reproducible output, or nil for a
// randomly seeded one.
func Anonymize(v *Volume, expanded *Mask, candidates []int16, rng *randv2.Rand) (*Volume, error) {
	if len(candidates) == 0 {
		return nil, &SamplingEmptyError{Policy: "substitution"}
	}
	if rng == nil {
		rng = randv2.New(randv2.NewPCG(randv2.Uint64(), randv2.Uint64()))
	}

	out := v.Clone()
	if len(candidates) == 1 {
		only := candidates[0]
		for i, set := range expanded.Data {
			if set != 0 {
				out.Data[i] = only
			}
		}
		return out, nil
	}

	n := len(candidates)
	for i, set := range expanded.Data {
		if set != 0 {
			out.Data[i] = candidates[rng.IntN(n)]
		}
	}
	return out, nil
}
