// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package spectra

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rescore-engine/pkg/types"
)

// stubPrecursorInfo substitutes the reader hook for the duration of a test.
func stubPrecursorInfo(t *testing.T, fn func(path, run string) (map[string]types.PrecursorInfo, error)) {
	t.Helper()
	orig := getPrecursorInfo
	getPrecursorInfo = fn
	t.Cleanup(func() { getPrecursorInfo = orig })
}

// spectrumDir creates a directory containing one empty MGF file per run so
// path resolution succeeds without real spectrum data.
func spectrumDir(t *testing.T, runs ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, run := range runs {
		err := os.WriteFile(filepath.Join(dir, run+".mgf"), []byte{}, 0o644)
		require.NoError(t, err)
	}
	return dir
}

func fl(v float64) *float64 { return &v }

func emptyPSMs() types.PSMList {
	return types.PSMList{
		{Peptidoform: "PEPTIDE/2", Run: "run1", SpectrumID: "spectrum1"},
		{Peptidoform: "PEPTIDE/2", Run: "run1", SpectrumID: "spectrum2"},
	}
}

func TestAddPrecursorValues(t *testing.T) {
	psms := emptyPSMs()
	dir := spectrumDir(t, "run1")
	stubPrecursorInfo(t, func(path, run string) (map[string]types.PrecursorInfo, error) {
		return map[string]types.PrecursorInfo{
			"spectrum1": {MZ: 529.7935187324, RT: 10.5, IM: 1.0},
			"spectrum2": {MZ: 651.83, RT: 12.3, IM: 1.2},
		}, nil
	})

	required := types.NewMSDataSet(types.RetentionTime, types.IonMobility, types.PrecursorMZ)
	available, err := AddPrecursorValues(psms, required, dir, 0)
	require.NoError(t, err)

	assert.True(t, available.Has(types.RetentionTime))
	assert.True(t, available.Has(types.IonMobility))
	assert.True(t, available.Has(types.PrecursorMZ))
	assert.True(t, available.Has(types.MS2Spectra))

	for _, psm := range psms {
		require.NotNil(t, psm.RetentionTime)
		require.NotNil(t, psm.IonMobility)
		require.NotNil(t, psm.PrecursorMZ)
	}
	assert.Equal(t, 529.7935187324, *psms[0].PrecursorMZ)
	assert.Equal(t, 12.3, *psms[1].RetentionTime)
}

func TestAddPrecursorValuesMissingIonMobility(t *testing.T) {
	psms := emptyPSMs()
	dir := spectrumDir(t, "run1")
	stubPrecursorInfo(t, func(path, run string) (map[string]types.PrecursorInfo, error) {
		return map[string]types.PrecursorInfo{
			"spectrum1": {MZ: 529.7935187324, RT: 10.5, IM: 0.0},
			"spectrum2": {MZ: 651.83, RT: 12.3, IM: 0.0},
		}, nil
	})

	required := types.NewMSDataSet(types.RetentionTime, types.IonMobility, types.PrecursorMZ)
	available, err := AddPrecursorValues(psms, required, dir, 0)
	require.NoError(t, err)

	// All-sentinel mobility means the source does not support it: the
	// category is dropped and the field nulled batch-wide.
	assert.True(t, available.Has(types.RetentionTime))
	assert.False(t, available.Has(types.IonMobility))
	assert.True(t, available.Has(types.PrecursorMZ))

	for _, psm := range psms {
		assert.NotNil(t, psm.RetentionTime)
		assert.Nil(t, psm.IonMobility)
		assert.NotNil(t, psm.PrecursorMZ)
	}
}

func TestAddPrecursorValuesAlreadyAvailable(t *testing.T) {
	psms := types.PSMList{
		{
			Peptidoform:   "PEPTIDE/2",
			Run:           "run1",
			SpectrumID:    "spectrum1",
			RetentionTime: fl(10.5),
			IonMobility:   fl(1.0),
			PrecursorMZ:   fl(529.79),
		},
	}
	var extractorCalls int32
	stubPrecursorInfo(t, func(path, run string) (map[string]types.PrecursorInfo, error) {
		atomic.AddInt32(&extractorCalls, 1)
		return nil, nil
	})

	required := types.NewMSDataSet(types.RetentionTime, types.IonMobility)
	available, err := AddPrecursorValues(psms, required, "", 0)
	require.NoError(t, err)

	assert.True(t, available.Has(types.RetentionTime))
	assert.True(t, available.Has(types.IonMobility))
	// Available but not required.
	assert.True(t, available.Has(types.PrecursorMZ))
	assert.Equal(t, int32(0), atomic.LoadInt32(&extractorCalls))
}

func TestAddPrecursorValuesSentinelIonMobilityNotAvailable(t *testing.T) {
	psms := types.PSMList{
		{
			Peptidoform:   "PEPTIDE/2",
			Run:           "run1",
			SpectrumID:    "spectrum1",
			RetentionTime: fl(10.5),
			IonMobility:   fl(0.0), // sentinel, not a measurement
			PrecursorMZ:   fl(529.79),
		},
	}

	required := types.NewMSDataSet(types.IonMobility)
	_, err := AddPrecursorValues(psms, required, "", 0)
	var parseErr *SpectrumParsingError
	require.ErrorAs(t, err, &parseErr)
}

func TestAddPrecursorValuesNoSpectrumPathError(t *testing.T) {
	psms := types.PSMList{
		{Peptidoform: "PEPTIDE/2", Run: "run1", SpectrumID: "spectrum1"},
	}

	required := types.NewMSDataSet(types.RetentionTime)
	_, err := AddPrecursorValues(psms, required, "", 0)
	var parseErr *SpectrumParsingError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "Spectrum path must be provided")
}

func TestAddPrecursorValuesMS2SpectraAvailability(t *testing.T) {
	psms := types.PSMList{
		{
			Peptidoform:   "PEPTIDE/2",
			Run:           "run1",
			SpectrumID:    "spectrum1",
			RetentionTime: fl(10.5),
			IonMobility:   fl(1.0),
			PrecursorMZ:   fl(529.79),
		},
	}
	required := types.NewMSDataSet(types.RetentionTime)

	// Without a spectrum path, raw MS2 spectra are unreachable.
	available, err := AddPrecursorValues(psms, required, "", 0)
	require.NoError(t, err)
	assert.False(t, available.Has(types.MS2Spectra))

	// With one, they are reachable for later on-demand reads even though
	// nothing was extracted now.
	available, err = AddPrecursorValues(psms, required, spectrumDir(t, "run1"), 0)
	require.NoError(t, err)
	assert.True(t, available.Has(types.MS2Spectra))
}

func TestPrecursorValuesOrder(t *testing.T) {
	psms := emptyPSMs()
	dir := spectrumDir(t, "run1")
	stubPrecursorInfo(t, func(path, run string) (map[string]types.PrecursorInfo, error) {
		return map[string]types.PrecursorInfo{
			"spectrum1": {MZ: 529.7935187324, RT: 10.5, IM: 1.0},
			"spectrum2": {MZ: 651.83, RT: 12.3, IM: 1.2},
		}, nil
	})

	mzs, rts, ims, err := precursorValues(psms, dir, "", 1)
	require.NoError(t, err)

	assert.Equal(t, []float64{529.7935187324, 651.83}, mzs)
	assert.Equal(t, []float64{10.5, 12.3}, rts)
	assert.Equal(t, []float64{1.0, 1.2}, ims)
}

func TestPrecursorValuesInterleavedRuns(t *testing.T) {
	psms := types.PSMList{
		{Run: "run1", SpectrumID: "a"},
		{Run: "run2", SpectrumID: "x"},
		{Run: "run1", SpectrumID: "b"},
		{Run: "run2", SpectrumID: "y"},
	}
	dir := spectrumDir(t, "run1", "run2")
	stubPrecursorInfo(t, func(path, run string) (map[string]types.PrecursorInfo, error) {
		switch run {
		case "run1":
			return map[string]types.PrecursorInfo{
				"a": {MZ: 100, RT: 1, IM: 0.5},
				"b": {MZ: 200, RT: 2, IM: 0.6},
			}, nil
		default:
			return map[string]types.PrecursorInfo{
				"x": {MZ: 300, RT: 3, IM: 0.7},
				"y": {MZ: 400, RT: 4, IM: 0.8},
			}, nil
		}
	})

	// Output order follows PSM list order regardless of run grouping,
	// sequentially and with a worker per run.
	for _, workers := range []int{1, 2} {
		mzs, rts, ims, err := precursorValues(psms, dir, "", workers)
		require.NoError(t, err)
		assert.Equal(t, []float64{100, 300, 200, 400}, mzs)
		assert.Equal(t, []float64{1, 3, 2, 4}, rts)
		assert.Equal(t, []float64{0.5, 0.7, 0.6, 0.8}, ims)
	}
}

func TestPrecursorValuesMissingSpectrumID(t *testing.T) {
	psms := emptyPSMs()
	dir := spectrumDir(t, "run1")
	stubPrecursorInfo(t, func(path, run string) (map[string]types.PrecursorInfo, error) {
		return map[string]types.PrecursorInfo{
			"spectrum1": {MZ: 529.7935187324, RT: 10.5, IM: 1.0},
			// "spectrum2" is missing
		}, nil
	})

	_, _, _, err := precursorValues(psms, dir, "", 1)
	var parseErr *SpectrumParsingError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "spectrum2")
	assert.Contains(t, err.Error(), "run1")
}

func TestPrecursorValuesPathOverride(t *testing.T) {
	psms := types.PSMList{{Run: "run1", SpectrumID: "spectrum1"}}
	var seenPath string
	stubPrecursorInfo(t, func(path, run string) (map[string]types.PrecursorInfo, error) {
		seenPath = path
		return map[string]types.PrecursorInfo{"spectrum1": {MZ: 1, RT: 2, IM: 3}}, nil
	})

	// The override bypasses resolution entirely, so no file needs to exist.
	_, _, _, err := precursorValues(psms, "", "already/resolved.mzML", 1)
	require.NoError(t, err)
	assert.Equal(t, "already/resolved.mzML", seenPath)
}

func TestErrorsUnwrap(t *testing.T) {
	cfgErr := error(&ConfigurationError{"bad path"})
	assert.Equal(t, "bad path", cfgErr.Error())
	assert.False(t, errors.As(cfgErr, new(*SpectrumParsingError)))
}
