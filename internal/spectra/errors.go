// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package spectra

// ConfigurationError reports a user-fixable problem: the configured spectrum
// path could not be resolved to an existing, supported spectrum source.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// SpectrumParsingError reports a data-level failure at extraction time: a
// required spectrum path is absent, or a PSM references a spectrum
// identifier that the source does not contain.
type SpectrumParsingError struct {
	Message string
}

func (e *SpectrumParsingError) Error() string { return e.Message }
