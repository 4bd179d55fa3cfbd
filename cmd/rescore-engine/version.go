// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rescore-engine/internal/update"
	"github.com/pdiddy/rescore-engine/pkg/types"
)

const updateRepo = "pdiddy/rescore-engine"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of rescore-engine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rescore-engine %s\n", version)

		check, _ := cmd.Flags().GetBool("check-update")
		if !check {
			return
		}

		cfg := types.UpdateConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   3 * time.Second,
				UserAgent: "rescore-engine-update-checker",
			},
			Repo:  updateRepo,
			Token: secretDefault("github-token", ""),
		}
		client := &http.Client{Timeout: cfg.Timeout}
		result := update.Check(context.Background(), client, version, cfg)
		switch {
		case !result.OK:
			fmt.Printf("update check failed: %s\n", result.Err)
		case result.IsUpdate:
			fmt.Printf("newer release available: %s (%s)\n", result.LatestVersion, result.HTMLURL)
		default:
			fmt.Println("up to date")
		}
	},
}

func init() {
	versionCmd.Flags().Bool("check-update", false, "query GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
}
