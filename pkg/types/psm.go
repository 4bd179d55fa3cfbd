// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PSM is one peptide-spectrum match: a candidate peptide assigned to a
// single spectrum by the upstream search engine. The three precursor fields
// are nil until reported by the search engine or filled in by enrichment.
type PSM struct {
	// Peptidoform is the peptide in ProForma notation including charge
	// (e.g. "PEPTIDE/2").
	Peptidoform string `json:"peptidoform" yaml:"peptidoform"`

	// Run is the acquisition run name, conventionally the stem of the
	// spectrum filename.
	Run string `json:"run" yaml:"run"`

	// SpectrumID identifies the spectrum within its run. Unique per run.
	SpectrumID string `json:"spectrum_id" yaml:"spectrum_id"`

	// IsDecoy marks PSMs matched against the decoy database.
	IsDecoy bool `json:"is_decoy" yaml:"is_decoy"`

	// Score is the search engine score, if reported.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// RetentionTime is the precursor retention time in seconds.
	RetentionTime *float64 `json:"retention_time,omitempty" yaml:"retention_time,omitempty"`

	// IonMobility is the precursor ion mobility (1/K0). A value of exactly
	// 0.0 is the instrument sentinel for "not measured", distinct from nil.
	IonMobility *float64 `json:"ion_mobility,omitempty" yaml:"ion_mobility,omitempty"`

	// PrecursorMZ is the precursor mass-to-charge ratio.
	PrecursorMZ *float64 `json:"precursor_mz,omitempty" yaml:"precursor_mz,omitempty"`
}

// PSMList is an ordered collection of PSMs. Order is significant: enrichment
// produces arrays aligned with list order. PSMs from multiple runs may be
// interleaved.
type PSMList []*PSM

// Runs returns the distinct run names in first-appearance order.
func (l PSMList) Runs() []string {
	seen := make(map[string]bool, 4)
	var runs []string
	for _, psm := range l {
		if !seen[psm.Run] {
			seen[psm.Run] = true
			runs = append(runs, psm.Run)
		}
	}
	return runs
}

// IndexesByRun groups list positions by run name. The index slices partition
// the list, so per-run workers writing only to their own indexes never
// overlap.
func (l PSMList) IndexesByRun() map[string][]int {
	byRun := make(map[string][]int, 4)
	for i, psm := range l {
		byRun[psm.Run] = append(byRun[psm.Run], i)
	}
	return byRun
}
