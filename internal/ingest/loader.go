// Package ingest reads source documents into uniform in-memory records.
// Unreadable sources are skipped with a logged failure; loading never
// aborts the run.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/stephen-devops/specsift/internal/model"
)

// Loader reads local files and remote URLs into SourceDocuments
type Loader struct {
	fetcher *Fetcher
	workers int
	verbose bool
}

// NewLoader creates a new document loader
func NewLoader(fetcher *Fetcher, workers int, verbose bool) *Loader {
	if workers <= 0 {
		workers = 1
	}
	return &Loader{
		fetcher: fetcher,
		workers: workers,
		verbose: verbose,
	}
}

// Load reads all sources concurrently, preserving input order in the
// result. Sources that fail to load are logged and dropped.
func (l *Loader) Load(ctx context.Context, sources []string) []model.SourceDocument {
	loaded := make([]*model.SourceDocument, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			doc, err := l.loadOne(gctx, source)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  ✗ Failed to load %s: %v\n", source, err)
				return nil // skip, never fatal
			}
			if l.verbose {
				fmt.Fprintf(os.Stderr, "  ✓ Loaded %s document: %s\n", doc.Kind, filepath.Base(source))
			}
			loaded[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	docs := make([]model.SourceDocument, 0, len(sources))
	for _, doc := range loaded {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs
}

func (l *Loader) loadOne(ctx context.Context, source string) (*model.SourceDocument, error) {
	if isRemote(source) {
		return l.fetcher.Fetch(ctx, source)
	}

	kind := DetectKind(source)

	// Binary document kinds have no body extraction; the pipeline still
	// runs but ingests only a placeholder for them.
	switch kind {
	case model.KindPDF:
		return &model.SourceDocument{
			Origin:  source,
			Kind:    kind,
			Content: fmt.Sprintf("[PDF content from %s - extraction not implemented]", source),
		}, nil
	case model.KindPPTX:
		return &model.SourceDocument{
			Origin:  source,
			Kind:    kind,
			Content: fmt.Sprintf("[PPTX content from %s - extraction not implemented]", source),
		}, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	content := string(data)
	if kind == model.KindHTML {
		content = VisibleText(content)
	}

	return &model.SourceDocument{
		Origin:  source,
		Kind:    kind,
		Content: content,
	}, nil
}

// DetectKind maps a path or URL to a source document kind by extension
func DetectKind(source string) model.SourceKind {
	ext := strings.ToLower(filepath.Ext(strings.TrimRight(source, "/")))
	switch ext {
	case ".md", ".markdown":
		return model.KindMarkdown
	case ".html", ".htm":
		return model.KindHTML
	case ".pdf":
		return model.KindPDF
	case ".pptx", ".ppt":
		return model.KindPPTX
	default:
		return model.KindText
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
