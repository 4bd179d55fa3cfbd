// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// MSDataType is one category of mass spectrometry metadata that feature
// generators may require. The enumeration is closed; values are bit flags so
// a set of categories fits in a single MSDataSet.
type MSDataType uint8

const (
	// RetentionTime is the precursor retention time.
	RetentionTime MSDataType = 1 << iota
	// IonMobility is the precursor ion mobility (1/K0).
	IonMobility
	// PrecursorMZ is the precursor mass-to-charge ratio.
	PrecursorMZ
	// MS2Spectra indicates raw MS2 spectra are reachable for on-demand
	// reading. It is never extracted eagerly.
	MS2Spectra
)

// allMSDataTypes lists every flag in declaration order.
var allMSDataTypes = []MSDataType{RetentionTime, IonMobility, PrecursorMZ, MS2Spectra}

func (t MSDataType) String() string {
	switch t {
	case RetentionTime:
		return "retention_time"
	case IonMobility:
		return "ion_mobility"
	case PrecursorMZ:
		return "precursor_mz"
	case MS2Spectra:
		return "ms2_spectra"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseMSDataType converts a category name (as used in config files and CLI
// flags) back into its flag value.
func ParseMSDataType(name string) (MSDataType, error) {
	for _, t := range allMSDataTypes {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown MS data type %q", name)
}

// MSDataSet is a fixed-size flag set over MSDataType.
type MSDataSet uint8

// NewMSDataSet builds a set from the given categories.
func NewMSDataSet(types ...MSDataType) MSDataSet {
	var s MSDataSet
	for _, t := range types {
		s.Add(t)
	}
	return s
}

// Add inserts a category into the set.
func (s *MSDataSet) Add(t MSDataType) { *s |= MSDataSet(t) }

// Remove deletes a category from the set.
func (s *MSDataSet) Remove(t MSDataType) { *s &^= MSDataSet(t) }

// Has reports whether the set contains the category.
func (s MSDataSet) Has(t MSDataType) bool { return s&MSDataSet(t) != 0 }

// HasAll reports whether the set is a superset of other.
func (s MSDataSet) HasAll(other MSDataSet) bool { return s&other == other }

// Union returns the combination of both sets.
func (s MSDataSet) Union(other MSDataSet) MSDataSet { return s | other }

// Types returns the contained categories in declaration order.
func (s MSDataSet) Types() []MSDataType {
	var out []MSDataType
	for _, t := range allMSDataTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s MSDataSet) String() string {
	names := make([]string, 0, 4)
	for _, t := range s.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, ",")
}

// PrecursorInfo is the per-spectrum precursor record produced by the
// spectrum readers.
type PrecursorInfo struct {
	// MZ is the selected precursor mass-to-charge ratio.
	MZ float64 `json:"mz" yaml:"mz"`

	// RT is the retention time in seconds.
	RT float64 `json:"rt" yaml:"rt"`

	// IM is the ion mobility (1/K0); 0.0 when the source does not measure it.
	IM float64 `json:"im" yaml:"im"`
}
