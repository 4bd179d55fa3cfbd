// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msdata

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/rescore-engine/pkg/types"
)

// readMGFPrecursors scans an MGF file and collects the precursor header
// lines of every BEGIN IONS block. Peak lines are skipped; only TITLE,
// PEPMASS, RTINSECONDS, and ION_MOBILITY are consumed.
func readMGFPrecursors(path string) (map[string]types.PrecursorInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening MGF file: %w", err)
	}
	defer f.Close()

	out := make(map[string]types.PrecursorInfo)

	var (
		inBlock bool
		title   string
		info    types.PrecursorInfo
		lineNo  int
	)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "BEGIN IONS":
			inBlock = true
			title = ""
			info = types.PrecursorInfo{}
		case line == "END IONS":
			if inBlock && title != "" {
				out[title] = info
			}
			inBlock = false
		case !inBlock || line == "":
			// Header lines outside blocks (CHARGE=, COM=, ...) are ignored.
		case strings.HasPrefix(line, "TITLE="):
			title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE="))
		case strings.HasPrefix(line, "PEPMASS="):
			// PEPMASS may carry intensity after the m/z value.
			fields := strings.Fields(strings.TrimPrefix(line, "PEPMASS="))
			if len(fields) == 0 {
				return nil, fmt.Errorf("%s:%d: empty PEPMASS", path, lineNo)
			}
			mz, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: parsing PEPMASS: %w", path, lineNo, err)
			}
			info.MZ = mz
		case strings.HasPrefix(line, "RTINSECONDS="):
			rt, err := strconv.ParseFloat(strings.TrimPrefix(line, "RTINSECONDS="), 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: parsing RTINSECONDS: %w", path, lineNo, err)
			}
			info.RT = rt
		case strings.HasPrefix(line, "ION_MOBILITY="):
			// timsTOF converters write "ION_MOBILITY=<frame> <scan> <1/K0>"
			// or just the 1/K0 value; the mobility is the last field.
			fields := strings.Fields(strings.TrimPrefix(line, "ION_MOBILITY="))
			if len(fields) == 0 {
				return nil, fmt.Errorf("%s:%d: empty ION_MOBILITY", path, lineNo)
			}
			im, err := strconv.ParseFloat(fields[len(fields)-1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: parsing ION_MOBILITY: %w", path, lineNo, err)
			}
			info.IM = im
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading MGF file %s: %w", path, err)
	}

	return out, nil
}
