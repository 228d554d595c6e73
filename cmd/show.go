package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/legislation-crawler/internal/legislation"
	"github.com/JakeFAU/legislation-crawler/internal/store"
)

type showOptions struct {
	year       string
	stage      string
	commission string
	lawNumber  string
}

func newShowCmd() *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Prints snapshot records as JSON",
		Long: `Reads a saved snapshot (the newest one unless --year is given) and prints
the records matching every filter as a JSON document on stdout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShowCommand(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.year, "year", "", "snapshot year key, e.g. 2025 (default newest)")
	cmd.Flags().StringVar(&opts.stage, "stage", "", "reading stage: 1 or 2")
	cmd.Flags().StringVar(&opts.commission, "commission", "", "commission id, e.g. 63")
	cmd.Flags().StringVar(&opts.lawNumber, "law-number", "", "law number, e.g. 03.25")
	cmd.Flags().String("output-dir", "", "directory holding the snapshot files")
	return cmd
}

func runShowCommand(cmd *cobra.Command, opts *showOptions) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	query := store.Query{CommissionID: opts.commission, LawNumber: opts.lawNumber}
	switch opts.stage {
	case "":
	case "1":
		query.Stage = legislation.StageLecture1
	case "2":
		query.Stage = legislation.StageLecture2
	default:
		return fmt.Errorf("invalid --stage %q: want 1 or 2", opts.stage)
	}

	snap, err := store.LoadKey(appInstance.Config().Scraper.OutputDir, opts.year)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	snap.Data = query.Apply(snap.Data)
	snap.TotalItems = len(snap.Data)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
