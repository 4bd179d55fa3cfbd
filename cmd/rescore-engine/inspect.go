// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rescore-engine/internal/msdata"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <spectrum-source>",
	Short: "Print per-spectrum precursor metadata from a spectrum source",
	Long: `Inspect reads an MGF or mzML file or a Bruker .d folder and prints one
line per spectrum: identifier, precursor m/z, retention time, and ion
mobility. Useful for checking that spectrum identifiers line up with a PSM
file before enrichment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		if !msdata.IsSupportedFileType(source) {
			return fmt.Errorf("unsupported spectrum source: %s", source)
		}

		runFilter, _ := cmd.Flags().GetString("run")
		precursors, err := msdata.GetPrecursorInfo(source, runFilter)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(precursors))
		for id := range precursors {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "spectrum_id\tmz\trt\tim")
		for _, id := range ids {
			p := precursors[id]
			fmt.Fprintf(w, "%s\t%g\t%g\t%g\n", id, p.MZ, p.RT, p.IM)
		}
		return w.Flush()
	},
}

func init() {
	inspectCmd.Flags().String("run", "", "run filter for multi-run container formats")

	rootCmd.AddCommand(inspectCmd)
}
