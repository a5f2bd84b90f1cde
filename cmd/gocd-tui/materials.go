package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altinukshini/gocd-tui/internal/report"
)

const requestTimeout = 30 * time.Second

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Print the pipeline's materials and variables",
	RunE:  runMaterials,
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}

func runMaterials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	info, err := sess.backend.GetTriggerOptions(ctx, cfg.Pipeline)
	if err != nil {
		return err
	}

	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	report.Materials(cmd.OutOrStdout(), cfg.Pipeline, info, width)
	return nil
}
