package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var summarizeDate string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Extract durable memories from a journal day",
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeDate, "date", "", "journal date to extract (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	day := time.Now()
	if summarizeDate != "" {
		day, err = time.Parse("2006-01-02", summarizeDate)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", summarizeDate, err)
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Close()

	store, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	extractor, err := newExtractor(cfg, store, log)
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	ids, err := extractor.ExtractDay(cmd.Context(), day)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if len(ids) == 0 {
		fmt.Printf("No memories extracted for %s\n", day.Format("2006-01-02"))
		return nil
	}
	fmt.Printf("Extracted %d memories for %s\n", len(ids), day.Format("2006-01-02"))
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
