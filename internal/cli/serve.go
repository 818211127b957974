package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veracity/internal/api"
)

var (
	serveAddr          string
	serveBackendURL    string
	serveLLMModel      string
	serveHistoryPath   string
	serveNoHistory     bool
	serveReverify      bool
	serveRespectRobots bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP API",
	Long: `Serve starts the JSON/HTTP API exposing text verification,
citation re-verification, AI-authorship detection and verification
history.

Example:
  veracity serve --addr :8080 --backend-url https://factcheck.example/verify
  OPENAI_API_KEY=sk-... veracity serve --reverify`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringVar(&serveBackendURL, "backend-url", "", "factual verification backend endpoint")
	serveCmd.Flags().StringVar(&serveLLMModel, "llm-model", "", "AI model name (default gpt-4o-mini)")
	serveCmd.Flags().StringVar(&serveHistoryPath, "history-path", "", "history database path (default veracity.db)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "disable verification history")
	serveCmd.Flags().BoolVar(&serveReverify, "reverify", false, "re-probe citations live during verification")
	serveCmd.Flags().BoolVar(&serveRespectRobots, "respect-robots", false, "honor robots.txt when probing citation URLs")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveBackendURL != "" {
		cfg.Backend.URL = serveBackendURL
	}
	if serveLLMModel != "" {
		cfg.LLM.Model = serveLLMModel
	}
	if serveHistoryPath != "" {
		cfg.History.Path = serveHistoryPath
	}
	if serveNoHistory {
		cfg.History.Enabled = false
	}
	cfg.Reverify.Enabled = serveReverify
	cfg.Probe.RespectRobots = serveRespectRobots

	svc, reverifier, store, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	if cfg.Backend.URL == "" {
		fmt.Fprintln(os.Stderr, "Warning: no backend URL configured; every verification will take the fallback branch")
	}

	router := api.NewRouter(svc, reverifier, store)

	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
	return router.Run(cfg.Server.Addr)
}
