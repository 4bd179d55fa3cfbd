// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msdata

import (
	"os"

	"github.com/gobwas/glob"
)

// Bruker miniTDF folders have no fixed name, but contain files matching
// both patterns: one per-spectrum binary blob and one columnar index.
var (
	miniTDFBin     = glob.MustCompile("*ms2spectrum.bin")
	miniTDFParquet = glob.MustCompile("*ms2spectrum.parquet")
)

// IsMiniTDF reports whether dir is a Bruker miniTDF folder. It counts files
// matching either miniTDF pattern; at least two matches in total qualify.
// The count is deliberately over the union of both patterns rather than one
// of each, mirroring how acquisition software lays these folders out.
func IsMiniTDF(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	matches := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if miniTDFBin.Match(entry.Name()) || miniTDFParquet.Match(entry.Name()) {
			matches++
		}
	}
	return matches >= 2
}
