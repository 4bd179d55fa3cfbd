// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package spectra resolves spectrum sources for acquisition runs and
// enriches PSM batches with per-spectrum precursor metadata.
// See docs/ARCHITECTURE § Spectrum Resolution, § Precursor Enrichment.
package spectra

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/rescore-engine/internal/msdata"
)

// Reader hooks. Declared as vars so tests can substitute fakes.
var (
	isSupportedFileType = msdata.IsSupportedFileType
	isMiniTDF           = msdata.IsMiniTDF
	getPrecursorInfo    = msdata.GetPrecursorInfo
)

// brukerExt is the vendor bundle directory extension.
const brukerExt = ".d"

// InferSpectrumPath resolves the concrete spectrum source for one run from
// the user-configured path and the run name found in the PSM file. Either
// argument may be empty. The returned path exists and is a supported
// spectrum source; all failure modes return a *ConfigurationError.
func InferSpectrumPath(configuredPath, runName string) (string, error) {
	var resolved string

	if configuredPath == "" {
		if runName == "" {
			return "", &ConfigurationError{
				"could not resolve spectrum file name: no spectrum path configured " +
					"and no run name in PSM file found",
			}
		}
		resolved = filepath.Join(".", runName)
	} else {
		isBrukerDir := strings.EqualFold(filepath.Ext(configuredPath), brukerExt) ||
			isMiniTDF(configuredPath)
		info, statErr := os.Stat(configuredPath)

		switch {
		// A plain directory holds spectrum files for several runs; the run
		// name selects one.
		case statErr == nil && info.IsDir() && !isBrukerDir:
			if runName == "" {
				return "", &ConfigurationError{
					"could not resolve spectrum file name: spectrum path is a directory " +
						"but no run name in PSM file found",
				}
			}
			resolved = filepath.Join(configuredPath, runName)

		// An existing file, or a Bruker bundle directory, is the source
		// itself. A run name that disagrees is suspicious but not fatal.
		case statErr == nil:
			if runName != "" && stem(configuredPath) != stem(runName) {
				slog.Warn("configured spectrum path does not match run name in PSM file; continuing with configured path",
					"spectrum_path", configuredPath,
					"run", runName)
			}
			resolved = configuredPath

		default:
			return "", &ConfigurationError{
				"configured spectrum path must be empty or a path to an existing file " +
					"or directory; if empty or a directory, spectrum run information " +
					"must be present in the PSM file",
			}
		}
	}

	// Complete the extension if the candidate does not name a supported,
	// existing source yet (e.g. a bare run name).
	if pathExists(resolved) && isSupportedFileType(resolved) {
		return resolved, nil
	}
	matches, _ := filepath.Glob(globEscape(resolved) + "*")
	for _, match := range matches {
		if isSupportedFileType(match) {
			return match, nil
		}
	}
	return "", &ConfigurationError{fmt.Sprintf(
		"resolved spectrum filename (%q) does not have a supported file extension "+
			"(mzML, MGF, or .d) and no matching existing files were found", resolved)}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// stem returns the filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// globEscape quotes glob metacharacters so run names containing brackets or
// wildcards match literally.
func globEscape(path string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return r.Replace(path)
}
