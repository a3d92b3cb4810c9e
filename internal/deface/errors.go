package deface

import "fmt"

// InputIntegrityError reports a scan that cannot be processed at all: too few
// slices, inconsistent in-plane dimensions, or unusable calibration.
type InputIntegrityError struct {
	Reason string
}

func (e *InputIntegrityError) Error() string {
	return fmt.Sprintf("input integrity: %s", e.Reason)
}

// SegmentationEmptyError reports a slice on which thresholding produced no
// foreground component. The affected layer is skipped rather than substituted.
type SegmentationEmptyError struct {
	Slice int
}

func (e *SegmentationEmptyError) Error() string {
	return fmt.Sprintf("segmentation: slice %d has no foreground component", e.Slice)
}

// SamplingEmptyError reports an empty candidate value set. Substitution cannot
// proceed without at least one admissible value.
type SamplingEmptyError struct {
	Policy string
}

func (e *SamplingEmptyError) Error() string {
	return fmt.Sprintf("sampling: %s policy produced no candidate values", e.Policy)
}

// ConfigurationError reports a configuration value that could not be
// interpreted. Replacer parse failures are recovered with a fallback; other
// configuration errors are fatal.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s=%q: %s", e.Field, e.Value, e.Reason)
}
