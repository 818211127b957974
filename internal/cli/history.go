package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veracity/internal/history"
)

var (
	historyLimit  int
	historyOffset int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show past verifications",
	Long: `History lists recorded verifications, newest first, or prints one
record in full when given its id.

Example:
  veracity history --limit 10
  veracity history 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to list")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "records to skip")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if !cfg.History.Enabled {
		return fmt.Errorf("history persistence is disabled")
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid record id: %s", args[0])
		}
		record, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		return enc.Encode(record)
	}

	records, err := store.List(ctx, historyLimit, historyOffset)
	if err != nil {
		return err
	}
	return enc.Encode(records)
}
