// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msdata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/net/html/charset"

	"github.com/pdiddy/rescore-engine/pkg/types"
)

// PSI-MS controlled vocabulary accessions used by the mzML reader.
const (
	cvScanStartTime      = "MS:1000016"
	cvSelectedIonMZ      = "MS:1000744"
	cvIsolationTargetMZ  = "MS:1000827"
	cvInverseReducedIM   = "MS:1002815"
	cvIonMobilityDrift   = "MS:1002476"
	cvUnitMinuteUO       = "UO:0000031"
	cvUnitMinuteMS       = "MS:1000038"
)

type mzMLCVParam struct {
	Accession     string `xml:"accession,attr"`
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
}

// mzMLSpectrum captures only the spectrum attributes and cvParams the
// precursor reader needs; peak arrays are never decoded.
type mzMLSpectrum struct {
	ID       string        `xml:"id,attr"`
	CvParams []mzMLCVParam `xml:"cvParam"`
	ScanList struct {
		Scans []struct {
			CvParams []mzMLCVParam `xml:"cvParam"`
		} `xml:"scan"`
	} `xml:"scanList"`
	PrecursorList struct {
		Precursors []struct {
			IsolationWindow struct {
				CvParams []mzMLCVParam `xml:"cvParam"`
			} `xml:"isolationWindow"`
			SelectedIonList struct {
				SelectedIons []struct {
					CvParams []mzMLCVParam `xml:"cvParam"`
				} `xml:"selectedIon"`
			} `xml:"selectedIonList"`
		} `xml:"precursor"`
	} `xml:"precursorList"`
}

// readMzMLPrecursors streams an mzML document and collects precursor
// metadata for every spectrum that carries a precursor list (i.e. MSn
// spectra). MS1 spectra have no selected ion and are skipped.
func readMzMLPrecursors(path string) (map[string]types.PrecursorInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mzML file: %w", err)
	}
	defer f.Close()

	d := xml.NewDecoder(f)
	d.CharsetReader = charset.NewReaderLabel

	out := make(map[string]types.PrecursorInfo)

	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding mzML file %s: %w", path, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "spectrum" {
			continue
		}

		var sp mzMLSpectrum
		if err := d.DecodeElement(&sp, &se); err != nil {
			return nil, fmt.Errorf("decoding mzML spectrum in %s: %w", path, err)
		}
		if len(sp.PrecursorList.Precursors) == 0 {
			continue
		}

		info, err := precursorFromSpectrum(sp)
		if err != nil {
			return nil, fmt.Errorf("mzML spectrum %q in %s: %w", sp.ID, path, err)
		}
		out[sp.ID] = info
	}

	return out, nil
}

func precursorFromSpectrum(sp mzMLSpectrum) (types.PrecursorInfo, error) {
	var info types.PrecursorInfo

	for _, scan := range sp.ScanList.Scans {
		for _, cv := range scan.CvParams {
			switch cv.Accession {
			case cvScanStartTime:
				rt, err := strconv.ParseFloat(cv.Value, 64)
				if err != nil {
					return info, fmt.Errorf("parsing scan start time: %w", err)
				}
				// Normalize minutes to seconds.
				if cv.UnitAccession == cvUnitMinuteUO || cv.UnitAccession == cvUnitMinuteMS {
					rt *= 60
				}
				info.RT = rt
			case cvInverseReducedIM, cvIonMobilityDrift:
				im, err := strconv.ParseFloat(cv.Value, 64)
				if err != nil {
					return info, fmt.Errorf("parsing ion mobility: %w", err)
				}
				info.IM = im
			}
		}
	}

	prec := sp.PrecursorList.Precursors[0]
	for _, ion := range prec.SelectedIonList.SelectedIons {
		for _, cv := range ion.CvParams {
			if cv.Accession == cvSelectedIonMZ {
				mz, err := strconv.ParseFloat(cv.Value, 64)
				if err != nil {
					return info, fmt.Errorf("parsing selected ion m/z: %w", err)
				}
				info.MZ = mz
			}
		}
	}
	if info.MZ == 0 {
		// Fall back to the isolation window target when no selected ion
		// m/z was recorded.
		for _, cv := range prec.IsolationWindow.CvParams {
			if cv.Accession == cvIsolationTargetMZ {
				mz, err := strconv.ParseFloat(cv.Value, 64)
				if err != nil {
					return info, fmt.Errorf("parsing isolation window target: %w", err)
				}
				info.MZ = mz
			}
		}
	}

	return info, nil
}
