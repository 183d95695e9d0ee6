// Package segment splits source documents into atomic natural-language
// statements using one inference call per chunk.
package segment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stephen-devops/specsift/internal/llm"
	"github.com/stephen-devops/specsift/internal/model"
	"github.com/stephen-devops/specsift/internal/worker"
)

const segmentationPrompt = `You are segmenting a requirements document into atomic statements.

RULES:
- One statement = one fact, rule, or requirement
- If a sentence contains multiple facts, split it
- Keep necessary context (currency, user role, condition)
- Preserve causal relationships (if X then Y)
- Number each statement

INPUT DOCUMENT:
%s

OUTPUT FORMAT:
1. [First atomic statement]
2. [Second atomic statement]
3. [Third atomic statement]
...

EXAMPLE INPUT:
"Users can upload CSV files with up to 10,000 rows, and the system validates format and content asynchronously."

EXAMPLE OUTPUT:
1. Users can upload CSV files
2. CSV files can contain up to 10,000 rows
3. System validates CSV format asynchronously
4. System validates CSV content asynchronously

Now segment the document above into atomic statements.
`

var numberedLine = regexp.MustCompile(`^\s*\d+[.):]\s+(.+)$`)

// Segmenter turns documents into atomic statements
type Segmenter struct {
	provider    llm.Provider
	limiter     *worker.Limiter
	chunkTokens int
	verbose     bool
}

// NewSegmenter creates a new segmenter
func NewSegmenter(provider llm.Provider, limiter *worker.Limiter, chunkTokens int, verbose bool) *Segmenter {
	if chunkTokens <= 0 {
		chunkTokens = 3000
	}
	return &Segmenter{
		provider:    provider,
		limiter:     limiter,
		chunkTokens: chunkTokens,
		verbose:     verbose,
	}
}

// Segment extracts atomic statements from all documents in order.
// A failed chunk loses only its own statements; the run continues.
func (s *Segmenter) Segment(ctx context.Context, docs []model.SourceDocument) []string {
	var all []string

	for _, doc := range docs {
		if s.verbose {
			fmt.Fprintf(os.Stderr, "  Segmenting %s...\n", filepath.Base(doc.Origin))
		}

		chunks := ChunkLines(doc.Content, s.chunkTokens)

		for i, chunk := range chunks {
			statements, err := s.segmentChunk(ctx, chunk)
			if err != nil {
				fmt.Fprintf(os.Stderr, "    ✗ Failed to segment chunk %d/%d of %s: %v\n",
					i+1, len(chunks), doc.Origin, err)
				continue
			}
			if s.verbose {
				fmt.Fprintf(os.Stderr, "    Chunk %d/%d: %d statements\n", i+1, len(chunks), len(statements))
			}
			all = append(all, statements...)
		}
	}

	return all
}

func (s *Segmenter) segmentChunk(ctx context.Context, chunk string) ([]string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: fmt.Sprintf(segmentationPrompt, chunk),
	})
	if err != nil {
		return nil, err
	}

	statements, skipped := ParseNumberedList(resp.Text)
	if skipped > 0 && s.verbose {
		// Unnumbered lines are discarded; surface how many so the gap is visible
		fmt.Fprintf(os.Stderr, "    Skipped %d unnumbered lines in segmentation response\n", skipped)
	}
	return statements, nil
}

// ChunkLines packs lines greedily into chunks bounded by a whitespace
// token budget. Lines are never split, so statements stay intact.
// Chunks with zero tokens are dropped: an empty or whitespace-only
// document yields no chunks and costs no inference calls.
func ChunkLines(content string, maxTokens int) []string {
	lines := strings.Split(content, "\n")

	var chunks []string
	var current []string
	currentTokens := 0

	for _, line := range lines {
		lineTokens := len(strings.Fields(line))
		if currentTokens+lineTokens > maxTokens && currentTokens > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = []string{line}
			currentTokens = lineTokens
		} else {
			current = append(current, line)
			currentTokens += lineTokens
		}
	}

	if currentTokens > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}

	return chunks
}

// ParseNumberedList extracts statements from a numbered-list response.
// Only lines with a leading integer followed by ".", ")" or ":" count;
// other non-empty lines are discarded and reported in the second return.
func ParseNumberedList(response string) ([]string, int) {
	var statements []string
	skipped := 0

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		match := numberedLine.FindStringSubmatch(line)
		if match != nil {
			statements = append(statements, strings.TrimSpace(match[1]))
		} else if strings.TrimSpace(line) != "" {
			skipped++
		}
	}

	return statements, skipped
}
