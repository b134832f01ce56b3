package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store statistics and index health",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
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

	ctx := cmd.Context()

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count memories: %w", err)
	}

	profile, err := store.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	fmt.Printf("Database:  %s\n", cfg.DBPath)
	fmt.Printf("Memories:  %d\n", count)
	if profile.UserName != "" {
		fmt.Printf("User:      %s\n", profile.UserName)
	}
	if profile.Device != "" {
		fmt.Printf("Device:    %s\n", profile.Device)
	}

	if err := store.VerifyIndex(ctx); err != nil {
		fmt.Printf("Index:     INCONSISTENT (%v)\n", err)
		return err
	}
	fmt.Printf("Index:     consistent\n")
	return nil
}
