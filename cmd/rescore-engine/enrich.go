// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rescore-engine/internal/psmio"
	"github.com/pdiddy/rescore-engine/internal/spectra"
	"github.com/pdiddy/rescore-engine/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <psm-file>",
	Short: "Enrich a PSM file with precursor values from spectrum files",
	Long: `Enrich reads a tab-separated PSM file, resolves the spectrum source for
every acquisition run it references, and fills in missing precursor values
(m/z, retention time, ion mobility). It reports which metadata categories
ended up usable across the entire batch. Extraction is all-or-nothing: a
single unresolvable spectrum fails the invocation and leaves the input
untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().String("spectrum-path", "", "spectrum file, Bruker .d folder, or directory of spectrum files")
	enrichCmd.Flags().StringSlice("require", []string{"retention_time", "precursor_mz"}, "metadata categories that must be usable")
	enrichCmd.Flags().String("out", "", "output PSM file (default: overwrite input)")
	enrichCmd.Flags().String("report", "", "write a YAML enrichment report to this path")
	enrichCmd.Flags().Int("workers", 0, "runs extracted concurrently (default from config, else 1)")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	psmPath := args[0]

	spectrumPath, _ := cmd.Flags().GetString("spectrum-path")
	if spectrumPath == "" {
		spectrumPath = viper.GetString("spectra.spectrum_path")
	}
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = viper.GetInt("spectra.workers")
	}

	requireNames, _ := cmd.Flags().GetStringSlice("require")
	var required types.MSDataSet
	for _, name := range requireNames {
		t, err := types.ParseMSDataType(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		required.Add(t)
	}

	psms, err := psmio.ReadTSV(psmPath)
	if err != nil {
		return err
	}
	if len(psms) == 0 {
		return fmt.Errorf("PSM file %s contains no PSMs", psmPath)
	}

	available, err := spectra.AddPrecursorValues(psms, required, spectrumPath, workers)
	if err != nil {
		var cfgErr *spectra.ConfigurationError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("spectrum path configuration: %w", err)
		}
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = psmPath
	}
	if err := psmio.WriteTSV(outPath, psms); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "enriched %d PSMs across %d run(s); available MS data: {%s}\n",
		len(psms), len(psms.Runs()), available)

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := psmio.WriteReport(reportPath, psmio.NewReport(psms, available)); err != nil {
			return err
		}
	}
	return nil
}
