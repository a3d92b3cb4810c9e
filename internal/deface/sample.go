package deface

import "sort"

// TissueCandidates collects the distinct intensities found at ring voxels and
// keeps those strictly inside (lo, hi). The result is sorted ascending so the
// candidate set is deterministic for a given scan. An empty result means the
// ring held no plausible tissue values; substitution must not proceed on it.
func TissueCandidates(v *Volume, ring *Mask, lo, hi int16) []int16 {
	seen := make(map[int16]struct{})
	for i, set := range ring.Data {
		if set == 0 {
			continue
		}
		hu := v.Data[i]
		if hu > lo && hu < hi {
			seen[hu] = struct{}{}
		}
	}
	out := make([]int16, 0, len(seen))
	for hu := range seen {
		out = append(out, hu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Candidates resolves the replacer policy into a concrete candidate value
// set. The tissue policy samples the ring; the fixed policies ignore it.
func Candidates(r Replacer, v *Volume, ring *Mask, lo, hi int16) ([]int16, error) {
	switch r.Kind {
	case ReplacerAir:
		return []int16{0}, nil
	case ReplacerFixed:
		return []int16{r.Value}, nil
	default:
		vals := TissueCandidates(v, ring, lo, hi)
		if len(vals) == 0 {
			return nil, &SamplingEmptyError{Policy: "tissue"}
		}
		return vals, nil
	}
}
