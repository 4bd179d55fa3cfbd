// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rescore-engine/internal/spectra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [run-name]",
	Short: "Resolve the spectrum source for an acquisition run",
	Long: `Resolve prints the concrete spectrum file or vendor bundle directory that
enrichment would use for a run, applying the same resolution rules: a
configured file wins, a configured directory is joined with the run name,
and a bare run name completes against supported extensions in the working
directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var runName string
		if len(args) == 1 {
			runName = args[0]
		}
		spectrumPath, _ := cmd.Flags().GetString("spectrum-path")

		resolved, err := spectra.InferSpectrumPath(spectrumPath, runName)
		if err != nil {
			return err
		}
		fmt.Println(resolved)
		return nil
	},
}

func init() {
	resolveCmd.Flags().String("spectrum-path", "", "spectrum file, Bruker .d folder, or directory of spectrum files")

	rootCmd.AddCommand(resolveCmd)
}
