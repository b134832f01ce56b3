package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/cortex/pkg/journal"
	"github.com/harun/cortex/pkg/memory"
)

var rememberCategory string

var rememberCmd = &cobra.Command{
	Use:   "remember <text>",
	Short: "Append a note to today's journal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemember,
}

func init() {
	rememberCmd.Flags().StringVar(&rememberCategory, "category", memory.CategoryNote, "entry category (task, knowledge, noise, note)")
	rootCmd.AddCommand(rememberCmd)
}

func runRemember(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	category := rememberCategory
	switch category {
	case memory.CategoryTask, memory.CategoryKnowledge, memory.CategoryNoise, memory.CategoryNote:
	default:
		return fmt.Errorf("unknown category: %s", rememberCategory)
	}

	now := time.Now()
	text := strings.Join(args, " ")
	if err := journal.Append(cfg.JournalDir, now, category, text); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	fmt.Printf("Recorded %s entry in %s\n", category, journal.FilePath(cfg.JournalDir, now))
	return nil
}
