// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package psmio reads and writes PSM lists in the tab-separated exchange
// format produced by the identification parsers. See docs/ARCHITECTURE
// § PSM Exchange.
package psmio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdiddy/rescore-engine/pkg/types"
)

// Column order for written files. Readers accept any column order and
// ignore columns they do not know.
var psmColumns = []string{
	"peptidoform",
	"run",
	"spectrum_id",
	"is_decoy",
	"score",
	"retention_time",
	"ion_mobility",
	"precursor_mz",
}

// requiredColumns must be present in every PSM file.
var requiredColumns = []string{"peptidoform", "run", "spectrum_id"}

// ReadTSV reads a headered tab-separated PSM file. Empty cells map to nil
// fields; list order follows file order.
func ReadTSV(path string) (types.PSMList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PSM file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading PSM file header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("PSM file %s is missing required column %q", path, name)
		}
	}

	var psms types.PSMList
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading PSM file %s: %w", path, err)
		}
		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		psm := &types.PSM{
			Peptidoform: cell("peptidoform"),
			Run:         cell("run"),
			SpectrumID:  cell("spectrum_id"),
		}
		if v := cell("is_decoy"); v != "" {
			decoy, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: parsing is_decoy: %w", path, line, err)
			}
			psm.IsDecoy = decoy
		}
		for _, fc := range []struct {
			name string
			dst  **float64
		}{
			{"score", &psm.Score},
			{"retention_time", &psm.RetentionTime},
			{"ion_mobility", &psm.IonMobility},
			{"precursor_mz", &psm.PrecursorMZ},
		} {
			v := cell(fc.name)
			if v == "" {
				continue
			}
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: parsing %s: %w", path, line, fc.name, err)
			}
			*fc.dst = &parsed
		}

		psms = append(psms, psm)
	}

	return psms, nil
}

// WriteTSV writes the PSM list as a headered tab-separated file, nil fields
// as empty cells.
func WriteTSV(path string, psms types.PSMList) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating PSM file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(psmColumns); err != nil {
		return fmt.Errorf("writing PSM file header: %w", err)
	}
	for _, psm := range psms {
		record := []string{
			psm.Peptidoform,
			psm.Run,
			psm.SpectrumID,
			strconv.FormatBool(psm.IsDecoy),
			formatFloat(psm.Score),
			formatFloat(psm.RetentionTime),
			formatFloat(psm.IonMobility),
			formatFloat(psm.PrecursorMZ),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing PSM record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing PSM file: %w", err)
	}
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
