package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Assess whether text was written by an AI",
	Long: `Detect asks the configured AI model whether the given text reads as
machine-generated and prints the assessment as JSON. The result is
independent of trust scoring. Requires OPENAI_API_KEY.

Example:
  OPENAI_API_KEY=sk-... veracity detect essay.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("input text is empty")
	}

	cfg := loadConfig()
	cfg.History.Enabled = false

	svc, _, _, err := buildComponents(cfg)
	if err != nil {
		return err
	}

	detection, err := svc.Detect(context.Background(), text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(detection)
}
