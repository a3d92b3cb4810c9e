package deface

import (
	"fmt"
	"strconv"
)

// ReplacerKind selects how substitute intensities are chosen.
type ReplacerKind int

const (
	// ReplacerTissue samples the palette found in the skin ring.
	ReplacerTissue ReplacerKind = iota
	// ReplacerAir substitutes the air-equivalent intensity 0.
	ReplacerAir
	// ReplacerFixed substitutes a single caller-supplied HU value.
	ReplacerFixed
)

func (k ReplacerKind) String() string {
	switch k {
	case ReplacerAir:
		return "air"
	case ReplacerFixed:
		return "fixed"
	default:
		return "tissue"
	}
}

// Replacer is the resolved substitution policy. Value is meaningful only for
// ReplacerFixed.
type Replacer struct {
	Kind  ReplacerKind
	Value int16
}

// ParseReplacer resolves the replacer parameter once at configuration time.
// Recognized values are "face" (tissue sampling), "air", or an integer HU
// value. Anything else falls back to tissue sampling; the returned
// ConfigurationError describes the rejected value so the caller can warn, but
// the returned Replacer is still usable.
func ParseReplacer(s string) (Replacer, error) {
	switch s {
	case "", "face":
		return Replacer{Kind: ReplacerTissue}, nil
	case "air":
		return Replacer{Kind: ReplacerAir}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Replacer{Kind: ReplacerTissue}, &ConfigurationError{
			Field:  "replacer",
			Value:  s,
			Reason: "must be \"face\", \"air\", or an integer HU value; falling back to face",
		}
	}
	if n < -32768 || n > 32767 {
		return Replacer{Kind: ReplacerTissue}, &ConfigurationError{
			Field:  "replacer",
			Value:  s,
			Reason: fmt.Sprintf("%d is outside the representable HU range; falling back to face", n),
		}
	}
	return Replacer{Kind: ReplacerFixed, Value: int16(n)}, nil
}
