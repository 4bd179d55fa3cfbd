// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package psmio

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rescore-engine/pkg/types"
)

// Report summarizes one enrichment invocation for downstream tooling.
type Report struct {
	// PSMCount is the batch size.
	PSMCount int `yaml:"psm_count"`

	// Runs lists the distinct acquisition runs in first-appearance order.
	Runs []string `yaml:"runs"`

	// AvailableMSData names the metadata categories confirmed usable
	// across the entire batch after enrichment.
	AvailableMSData []string `yaml:"available_ms_data"`
}

// NewReport builds a report from an enriched batch and its confirmed
// categories.
func NewReport(psms types.PSMList, available types.MSDataSet) Report {
	r := Report{
		PSMCount: len(psms),
		Runs:     psms.Runs(),
	}
	for _, t := range available.Types() {
		r.AvailableMSData = append(r.AvailableMSData, t.String())
	}
	return r
}

// WriteReport writes the report as YAML.
func WriteReport(path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling enrichment report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing enrichment report: %w", err)
	}
	return nil
}
