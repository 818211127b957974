package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/ppiankov/veracity/internal/backend"
	"github.com/ppiankov/veracity/internal/history"
	"github.com/ppiankov/veracity/internal/insight"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/probe"
	"github.com/ppiankov/veracity/internal/reverify"
	"github.com/ppiankov/veracity/internal/verify"
)

// loadConfig builds the effective configuration: defaults overlaid with
// config-file/env values. Per-command flags are applied on top by the
// callers.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("backend_url"); v != "" {
		cfg.Backend.URL = v
	}
	if v := viper.GetString("backend_api_key"); v != "" {
		cfg.Backend.APIKey = v
	}
	if v := viper.GetString("llm_model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("history_path"); v != "" {
		cfg.History.Path = v
	}

	// API keys come from the environment, never from flags.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg.Output.Verbose = verbose
	return cfg
}

// buildComponents assembles the verification pipeline from configuration
func buildComponents(cfg *model.Config) (*verify.Service, *reverify.Reverifier, history.Store, error) {
	backendClient := backend.NewClient(cfg.Backend, cfg.HTTP)

	var analyzer verify.Analyzer
	if cfg.LLM.APIKey != "" {
		client, err := insight.NewClient(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: AI provider disabled: %v\n", err)
		} else {
			analyzer = client
		}
	} else if cfg.Output.Verbose {
		fmt.Fprintln(os.Stderr, "AI provider disabled: OPENAI_API_KEY not set")
	}

	prober := probe.New(cfg.Probe, cfg.HTTP)
	reverifier := reverify.New(prober, cfg.Probe.MaxWorkers)

	var store history.Store
	if cfg.History.Enabled {
		s, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open history store: %w", err)
		}
		store = s
	}

	var serviceReverifier verify.Reverifier
	if cfg.Reverify.Enabled {
		serviceReverifier = reverifier
	}

	svc := verify.NewService(backendClient, analyzer, serviceReverifier, store, cfg.Output.Verbose)
	return svc, reverifier, store, nil
}

// readText reads the input text for one-shot commands: a file path
// argument, or stdin when the argument is "-" or absent.
func readText(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
