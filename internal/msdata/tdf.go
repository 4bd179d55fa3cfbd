// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msdata

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/rescore-engine/pkg/types"
)

const tdfFile = "analysis.tdf"

// readTDFPrecursors reads precursor metadata from the analysis.tdf SQLite
// database inside a Bruker .d folder. Spectrum identifiers are the decimal
// precursor numbers, matching how timsTOF search engines reference spectra.
//
// Ion mobility is derived from the precursor scan number with a linear
// mapping over the acquisition 1/K0 range from GlobalMetadata. This
// approximation matches the instrument's nominal calibration; sources
// without mobility metadata yield 0.0 throughout.
func readTDFPrecursors(dir string) (map[string]types.PrecursorInfo, error) {
	dbPath := filepath.Join(dir, tdfFile)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("bruker folder %s has no %s: %w", dir, tdfFile, err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer db.Close()

	k0Lower, k0Upper, haveK0, err := oneOverK0Range(db)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT p.Id, p.MonoisotopicMz, p.AverageMz, p.ScanNumber, f.Time, f.NumScans
		FROM Precursors p
		JOIN Frames f ON f.Id = p.Parent
		ORDER BY p.Id`)
	if err != nil {
		return nil, fmt.Errorf("querying precursors in %s: %w", dbPath, err)
	}
	defer rows.Close()

	out := make(map[string]types.PrecursorInfo)
	for rows.Next() {
		var (
			id         int64
			mono, avg  sql.NullFloat64
			scanNumber sql.NullFloat64
			rt         float64
			numScans   int64
		)
		if err := rows.Scan(&id, &mono, &avg, &scanNumber, &rt, &numScans); err != nil {
			return nil, fmt.Errorf("scanning precursor row in %s: %w", dbPath, err)
		}

		info := types.PrecursorInfo{RT: rt}
		switch {
		case mono.Valid:
			info.MZ = mono.Float64
		case avg.Valid:
			info.MZ = avg.Float64
		}
		if haveK0 && scanNumber.Valid && numScans > 1 {
			info.IM = k0Lower + (k0Upper-k0Lower)*scanNumber.Float64/float64(numScans-1)
		}

		out[strconv.FormatInt(id, 10)] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating precursors in %s: %w", dbPath, err)
	}

	return out, nil
}

// oneOverK0Range reads the acquisition ion mobility range from the
// GlobalMetadata key-value table. Both bounds must be present and parse as
// floats; otherwise the source is treated as mobility-free.
func oneOverK0Range(db *sql.DB) (lower, upper float64, ok bool, err error) {
	rows, err := db.Query(`
		SELECT Key, Value FROM GlobalMetadata
		WHERE Key IN ('OneOverK0AcqRangeLower', 'OneOverK0AcqRangeUpper')`)
	if err != nil {
		return 0, 0, false, fmt.Errorf("querying GlobalMetadata: %w", err)
	}
	defer rows.Close()

	var haveLower, haveUpper bool
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return 0, 0, false, fmt.Errorf("scanning GlobalMetadata row: %w", err)
		}
		v, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			continue
		}
		switch key {
		case "OneOverK0AcqRangeLower":
			lower, haveLower = v, true
		case "OneOverK0AcqRangeUpper":
			upper, haveUpper = v, true
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, false, fmt.Errorf("iterating GlobalMetadata: %w", err)
	}

	return lower, upper, haveLower && haveUpper, nil
}
