// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "rescore-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SpectraConfig holds settings for spectrum resolution and precursor
// enrichment.
type SpectraConfig struct {
	// SpectrumPath is the user-configured spectrum file, vendor bundle
	// directory, or directory of spectrum files. Empty means resolution
	// falls back to the run name in the working directory.
	SpectrumPath string `json:"spectrum_path,omitempty" yaml:"spectrum_path,omitempty"`

	// Workers bounds the number of runs extracted concurrently (default 1).
	// Runs are independent sources, so this only affects throughput.
	Workers int `json:"workers" yaml:"workers"`
}

// UpdateConfig holds settings for the release update checker.
type UpdateConfig struct {
	HTTPConfig `yaml:",inline"`

	// Repo is the GitHub "owner/name" repository queried for releases.
	Repo string `json:"repo" yaml:"repo"`

	// Token is an optional GitHub token for higher rate limits.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}
