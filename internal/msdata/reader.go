// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package msdata reads precursor metadata from mass spectrometry data files.
// It supports the open MGF and mzML formats plus Bruker .d folders (TDF
// SQLite). See docs/ARCHITECTURE § Spectrum Readers.
package msdata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/rescore-engine/pkg/types"
)

// supportedExtensions are the file extensions the readers understand,
// lowercase. Bruker .d applies to bundle directories.
var supportedExtensions = map[string]bool{
	".mgf":  true,
	".mzml": true,
	".d":    true,
}

// IsSupportedFileType reports whether path names a spectrum source one of
// the readers can handle: a supported extension, or a miniTDF folder
// recognized by its contents.
func IsSupportedFileType(path string) bool {
	if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	return IsMiniTDF(path)
}

// GetPrecursorInfo reads per-spectrum precursor metadata from the source at
// path and returns a map keyed by spectrum identifier. The identifier
// convention depends on the format: MGF uses the TITLE line, mzML the
// spectrum id attribute, and Bruker .d the decimal precursor number.
//
// runFilter is reserved for multi-run container formats; the current
// readers each hold a single run and ignore it.
func GetPrecursorInfo(path, runFilter string) (map[string]types.PrecursorInfo, error) {
	_ = runFilter

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mgf":
		return readMGFPrecursors(path)
	case ".mzml":
		return readMzMLPrecursors(path)
	case ".d":
		return readTDFPrecursors(path)
	}
	if IsMiniTDF(path) {
		return nil, fmt.Errorf("miniTDF folder %s: precursor extraction from the parquet index is not supported", path)
	}
	return nil, fmt.Errorf("unsupported spectrum file type: %s", path)
}
