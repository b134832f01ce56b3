package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harun/cortex/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the data directory, database and default config",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for _, dir := range []string{cfg.DataDir, cfg.JournalDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
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

	ctx := cmd.Context()
	profile, err := store.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	if cfg.Profile.UserName != "" {
		profile.UserName = cfg.Profile.UserName
	}
	if cfg.Profile.Device != "" {
		profile.Device = cfg.Profile.Device
	}
	if err := store.SetProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Initialized cortex\n")
	fmt.Printf("  Data dir:    %s\n", cfg.DataDir)
	fmt.Printf("  Journal dir: %s\n", cfg.JournalDir)
	fmt.Printf("  Database:    %s\n", cfg.DBPath)
	fmt.Printf("  Embedding:   %s (%s, dim %d)\n", cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimension)
	return nil
}
