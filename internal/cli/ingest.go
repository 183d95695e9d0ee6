package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stephen-devops/specsift/internal/model"
	"github.com/stephen-devops/specsift/internal/pipeline"
)

var (
	outDir      string
	llmProvider string
	llmModel    string
	llmTimeout  int
	workers     int
	chunkTokens int
	rps         float64
	noCache     bool
	userAgent   string
	maxBytes    int64
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <source> [source...]",
	Short: "Ingest requirements documents and generate project artifacts",
	Long: `Ingest loads one or more requirements sources (local .txt/.md/.html
files or http(s) URLs), segments them into atomic statements, classifies
each along a type and context dimension, and writes three artifacts:

  pm_input.md           - intents, requirements and user-facing interfaces
  project_context.yaml  - full machine-readable statement corpus
  architect_seeds.md    - design mandates, patterns and complex flows

Example:
  specsift ingest notes.md requirements.txt
  specsift ingest https://wiki.example.com/payments-spec --provider ollama
  specsift ingest brief.md --out ./artifacts --workers 8 --rps 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Output flags
	ingestCmd.Flags().StringVar(&outDir, "out", "output", "output directory root (a run-scoped subdirectory is created)")

	// LLM flags
	ingestCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	ingestCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (provider default when empty)")
	ingestCmd.Flags().IntVar(&llmTimeout, "timeout", 60, "per-call LLM timeout in seconds")
	ingestCmd.Flags().Float64Var(&rps, "rps", 5, "max LLM requests per second (0 = unlimited)")
	ingestCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable LLM response cache")

	// Pipeline flags
	ingestCmd.Flags().IntVar(&workers, "workers", 4, "concurrent classification workers")
	ingestCmd.Flags().IntVar(&chunkTokens, "chunk-tokens", 3000, "approximate token budget per segmentation chunk")

	// HTTP flags
	ingestCmd.Flags().StringVar(&userAgent, "ua", "Specsift/0.1 (+https://github.com/stephen-devops/specsift)", "HTTP User-Agent for remote sources")
	ingestCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per remote source")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.Timeout = llmTimeout
	cfg.LLM.RequestsPerSecond = rps
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.ClassifyWorkers = workers
	cfg.Segment.ChunkTokens = chunkTokens
	cfg.Output.Dir = outDir
	cfg.Output.Verbose = verbose

	// Get API key from environment
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Sources: %d\n", len(args))
		fmt.Fprintf(os.Stderr, "Provider: %s\n", llmProvider)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Create pipeline
	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	result, err := p.Ingest(ctx, args)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if err := p.WriteArtifacts(result); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Ingested %d statements in %v\n", len(result.Statements), time.Since(started).Round(time.Millisecond))
	if len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stderr, "  %d validation warning(s) - see artifacts for detail\n", len(result.Warnings))
	}
	fmt.Fprintf(os.Stderr, "✓ Artifacts written to %s\n", result.OutputDir)

	return nil
}
