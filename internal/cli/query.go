package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harun/cortex/pkg/search"
)

var (
	queryLimit          int
	querySemanticWeight float64
	queryWindowDays     int
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search memories with hybrid semantic and keyword retrieval",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum number of results (default from config)")
	queryCmd.Flags().Float64Var(&querySemanticWeight, "semantic-weight", -1, "semantic weight in [0,1] (default from config)")
	queryCmd.Flags().IntVar(&queryWindowDays, "window", 0, "keyword search window in days (default from config)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
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

	retriever, err := newRetriever(cfg, store, log)
	if err != nil {
		return fmt.Errorf("failed to build retriever: %w", err)
	}

	opts := &search.Options{
		Limit:          cfg.Search.Limit,
		SemanticWeight: cfg.Search.SemanticWeight,
		WindowDays:     cfg.Search.WindowDays,
	}
	if queryLimit > 0 {
		opts.Limit = queryLimit
	}
	if querySemanticWeight >= 0 {
		opts.SemanticWeight = querySemanticWeight
	}
	if queryWindowDays > 0 {
		opts.WindowDays = queryWindowDays
	}

	query := strings.Join(args, " ")
	results, err := retriever.Retrieve(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No memories found.")
		return nil
	}

	for i, r := range results {
		printResult(i+1, r)
	}
	return nil
}

func printResult(rank int, r search.Result) {
	label := r.Source
	if r.KeywordBoosted {
		label += "+keyword"
	}
	fmt.Printf("%d. [%s] %s  score=%.3f\n", rank, label, r.Category, r.Score)
	fmt.Printf("   date: %s", r.Date)
	if len(r.Tags) > 0 {
		fmt.Printf("  tags: %s", strings.Join(r.Tags, ", "))
	}
	fmt.Println()
	fmt.Printf("   %s\n", truncateSummary(r.Summary, 160))
}

func truncateSummary(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
