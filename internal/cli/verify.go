package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	verifyBackendURL string
	verifyReverify   bool
	verifyNoHistory  bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Verify text and print the trust-scored result as JSON",
	Long: `Verify runs the full verification pipeline once on the given file,
or on stdin when the argument is "-" or absent, and prints the merged
result as JSON.

Example:
  veracity verify article.txt --backend-url https://factcheck.example/verify
  cat draft.md | OPENAI_API_KEY=sk-... veracity verify --reverify`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyBackendURL, "backend-url", "", "factual verification backend endpoint")
	verifyCmd.Flags().BoolVar(&verifyReverify, "reverify", false, "re-probe citation URLs live")
	verifyCmd.Flags().BoolVar(&verifyNoHistory, "no-history", false, "do not record this run in history")
}

func runVerify(cmd *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("input text is empty")
	}

	cfg := loadConfig()
	if verifyBackendURL != "" {
		cfg.Backend.URL = verifyBackendURL
	}
	cfg.Reverify.Enabled = verifyReverify
	if verifyNoHistory {
		cfg.History.Enabled = false
	}

	svc, _, store, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	result := svc.Verify(context.Background(), text)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
