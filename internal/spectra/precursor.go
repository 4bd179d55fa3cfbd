// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package spectra

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/rescore-engine/pkg/types"
)

// AddPrecursorValues ensures the PSM batch carries the required metadata
// categories, reading spectrum files only when the search engine output left
// gaps. PSMs are mutated in place. The returned set holds every category
// confirmed available across the whole batch, which may exceed required.
//
// spectrumPath may be empty when the batch is already complete; otherwise it
// is the configured spectrum file or directory. workers bounds concurrent
// per-run extraction (values < 1 mean sequential).
func AddPrecursorValues(psms types.PSMList, required types.MSDataSet, spectrumPath string, workers int) (types.MSDataSet, error) {
	available := availableData(psms)

	// Raw MS2 spectra are readable later on demand whenever a spectrum
	// path is known; nothing is read eagerly here.
	if spectrumPath != "" {
		available.Add(types.MS2Spectra)
	}

	if available.HasAll(required) {
		return available, nil
	}

	if spectrumPath == "" {
		return 0, &SpectrumParsingError{fmt.Sprintf(
			"Spectrum path must be provided to extract missing MS data types; "+
				"available: {%s}, required: {%s}", available, required)}
	}

	mzs, rts, ims, err := precursorValues(psms, spectrumPath, "", workers)
	if err != nil {
		return 0, err
	}

	// A source without ion mobility support reports the 0.0 sentinel for
	// every spectrum; in that case the category is dropped batch-wide.
	imSupported := false
	for _, im := range ims {
		if im != 0 {
			imSupported = true
			break
		}
	}

	// Extraction succeeded for the full batch, so mutation cannot leave
	// partial state.
	for i, psm := range psms {
		mz, rt, im := mzs[i], rts[i], ims[i]
		psm.PrecursorMZ = &mz
		psm.RetentionTime = &rt
		if imSupported {
			psm.IonMobility = &im
		} else {
			psm.IonMobility = nil
		}
	}

	available.Add(types.RetentionTime)
	available.Add(types.PrecursorMZ)
	if imSupported {
		available.Add(types.IonMobility)
	} else {
		available.Remove(types.IonMobility)
	}
	return available, nil
}

// availableData reports the categories for which every PSM in the batch
// already holds a usable value. Ion mobility additionally excludes the 0.0
// not-measured sentinel.
func availableData(psms types.PSMList) types.MSDataSet {
	available := types.NewMSDataSet(types.RetentionTime, types.IonMobility, types.PrecursorMZ)
	for _, psm := range psms {
		if psm.RetentionTime == nil {
			available.Remove(types.RetentionTime)
		}
		if psm.IonMobility == nil || *psm.IonMobility == 0 {
			available.Remove(types.IonMobility)
		}
		if psm.PrecursorMZ == nil {
			available.Remove(types.PrecursorMZ)
		}
		if available == 0 {
			break
		}
	}
	return available
}

// precursorValues extracts (mz, rt, im) for every PSM, aligned with psms
// iteration order. PSMs are grouped by run; each run resolves to one source
// via InferSpectrumPath unless pathOverride names an already-resolved source
// for all runs. Extraction is all-or-nothing: any spectrum identifier absent
// from its source fails the whole call and no arrays are returned.
//
// Runs are independent and their index sets disjoint, so they may be
// extracted concurrently; each worker writes only to its own run's indexes.
func precursorValues(psms types.PSMList, spectrumRoot, pathOverride string, workers int) (mzs, rts, ims []float64, err error) {
	n := len(psms)
	mzs = make([]float64, n)
	rts = make([]float64, n)
	ims = make([]float64, n)

	if workers < 1 {
		workers = 1
	}

	byRun := psms.IndexesByRun()
	var g errgroup.Group
	g.SetLimit(workers)

	for _, run := range psms.Runs() {
		run := run
		indexes := byRun[run]
		g.Go(func() error {
			path := pathOverride
			if path == "" {
				resolved, err := InferSpectrumPath(spectrumRoot, run)
				if err != nil {
					return err
				}
				path = resolved
			}

			precursors, err := getPrecursorInfo(path, run)
			if err != nil {
				return fmt.Errorf("reading precursor info from %s: %w", path, err)
			}

			for _, i := range indexes {
				info, ok := precursors[psms[i].SpectrumID]
				if !ok {
					return &SpectrumParsingError{fmt.Sprintf(
						"spectrum with ID %q for run %q not found in spectrum file %s; "+
							"verify that the PSM file matches the spectrum files",
						psms[i].SpectrumID, run, path)}
				}
				mzs[i] = info.MZ
				rts[i] = info.RT
				ims[i] = info.IM
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return mzs, rts, ims, nil
}
