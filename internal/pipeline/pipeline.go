// Package pipeline sequences the ingestion stages for one run:
// load, segment, classify, enrich, validate, project, persist.
// Data flows strictly forward; no stage mutates an earlier stage's
// output, and no failure in any stage aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/stephen-devops/specsift/internal/cache"
	"github.com/stephen-devops/specsift/internal/classify"
	"github.com/stephen-devops/specsift/internal/enrich"
	"github.com/stephen-devops/specsift/internal/ingest"
	"github.com/stephen-devops/specsift/internal/llm"
	"github.com/stephen-devops/specsift/internal/model"
	"github.com/stephen-devops/specsift/internal/project"
	"github.com/stephen-devops/specsift/internal/segment"
	"github.com/stephen-devops/specsift/internal/validate"
	"github.com/stephen-devops/specsift/internal/worker"
)

// Artifact filenames, consumed downstream by name
const (
	GoalsFile   = "pm_input.md"
	ContextFile = "project_context.yaml"
	SeedsFile   = "architect_seeds.md"
)

// Pipeline orchestrates the complete ingestion run
type Pipeline struct {
	loader     *ingest.Loader
	segmenter  *segment.Segmenter
	classifier *classify.Classifier
	config     *model.Config
}

// Result contains everything one run produced
type Result struct {
	RunID      string
	Statements []model.EnrichedStatement
	Warnings   []validate.Warning
	Artifacts  map[string]string // filename -> content
	OutputDir  string            // set after WriteArtifacts
}

// New creates a pipeline from configuration, constructing the
// configured inference provider
func New(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	return NewWithProvider(cfg, provider), nil
}

// NewWithProvider creates a pipeline around an existing provider
func NewWithProvider(cfg *model.Config, provider llm.Provider) *Pipeline {
	limiter := worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)

	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			responseCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			responseCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	fetcher := ingest.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes)
	verbose := cfg.Output.Verbose

	return &Pipeline{
		loader:    ingest.NewLoader(fetcher, cfg.Concurrency.LoadWorkers, verbose),
		segmenter: segment.NewSegmenter(provider, limiter, cfg.Segment.ChunkTokens, verbose),
		classifier: classify.NewClassifier(provider, responseCache, limiter,
			cfg.Concurrency.ClassifyWorkers, cfg.LLM.Retries, verbose),
		config: cfg,
	}
}

// Ingest runs the full pipeline over the given sources. It always
// returns all three artifacts: per-item failures degrade to skipped
// documents, dropped chunks or fallback classifications, never to an
// aborted run.
func (p *Pipeline) Ingest(ctx context.Context, sources []string) (*Result, error) {
	verbose := p.config.Output.Verbose

	docs := p.loader.Load(ctx, sources)
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d source documents\n", len(docs))
	}

	statements := p.segmenter.Segment(ctx, docs)
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Segmented into %d atomic statements\n", len(statements))
	}

	classified := p.classifier.ClassifyAll(ctx, statements)
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Classified %d statements\n", len(classified))
	}

	enriched := enrich.Enrich(classified)

	warnings := validate.Check(enriched)
	if len(warnings) > 0 {
		fmt.Fprintf(os.Stderr, "Validation warnings: %d\n", len(warnings))
		for i, w := range warnings {
			if i >= 5 {
				break
			}
			fmt.Fprintf(os.Stderr, "  - %s\n", w)
		}
	}

	now := time.Now()
	contextDoc, err := project.RenderContext(enriched, now)
	if err != nil {
		return nil, fmt.Errorf("render context document: %w", err)
	}

	return &Result{
		RunID:      ulid.Make().String(),
		Statements: enriched,
		Warnings:   warnings,
		Artifacts: map[string]string{
			GoalsFile:   project.RenderGoals(enriched, now),
			ContextFile: contextDoc,
			SeedsFile:   project.RenderSeeds(enriched, now),
		},
	}, nil
}

// WriteArtifacts persists the three artifacts into a run-scoped
// directory under the configured output root
func (p *Pipeline) WriteArtifacts(result *Result) error {
	dir := filepath.Join(p.config.Output.Dir, result.RunID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for name, content := range result.Artifacts {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "  ✓ Saved: %s\n", path)
		}
	}

	result.OutputDir = dir
	return nil
}
