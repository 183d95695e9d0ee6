// Package classify assigns each atomic statement one TYPE and one
// CONTEXT label via the inference service, degrading per-statement to a
// safe fallback on malformed responses. Classification never aborts a
// run.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/stephen-devops/specsift/internal/cache"
	"github.com/stephen-devops/specsift/internal/llm"
	"github.com/stephen-devops/specsift/internal/model"
	"github.com/stephen-devops/specsift/internal/worker"
)

const classificationPrompt = `You are a requirements classifier. Classify each statement along TWO dimensions.

STATEMENT: "%s"

OUTPUT FORMAT (JSON):
{
  "type": "[Intent|Requirement|Constraint|Flow|Interface|Design]",
  "context": "[Environment-specific|Project-specific]",
  "context_rationale": "Brief explanation why environment or project"
}

CLASSIFICATION RULES:

=== TYPE (6-way) ===
- Intent: High-level goals ("enable users to...", "provide seamless...")
- Requirement: Concrete capabilities ("user can...", "system shall allow...")
- Constraint: Must/shall rules, limits ("max 10k rows", "INR requires invoice")
- Flow: Sequences, state transitions ("after upload -> validate", "status: Draft -> Validating")
- Interface: API endpoints, CSV columns, UI screens ("POST /api/v1/...", "CSV includes...")
- Design: Technical decisions ("use queue jobs", "design thin controllers")

=== CONTEXT (2-way) ===
Ask: "Would this be SAME or DIFFERENT in another similar company?"
- Environment-specific: DIFFERENT (company-specific rules, currencies, limits, auth, data model)
- Project-specific: SAME (generic patterns, framework syntax, REST standards, universal rules)

EXAMPLES:

Statement: "System shall support up to 10,000 payment rows per file"
{
  "type": "Constraint",
  "context": "Environment-specific",
  "context_rationale": "10,000 is a business-defined limit, another company might use 5,000 or 50,000"
}

Statement: "Payment amounts must be positive numeric values"
{
  "type": "Constraint",
  "context": "Project-specific",
  "context_rationale": "Universal business logic - negative payments don't make sense in any payment system"
}

Statement: "Use background queue jobs for async file processing"
{
  "type": "Design",
  "context": "Project-specific",
  "context_rationale": "Standard pattern for background processing in any web project"
}

Statement: "INR payments must include Invoice Number and Invoice Date"
{
  "type": "Constraint",
  "context": "Environment-specific",
  "context_rationale": "India-specific regulatory requirement, not applicable to other countries"
}

Statement: "POST /api/v1/mass-payments to upload file"
{
  "type": "Interface",
  "context": "Project-specific",
  "context_rationale": "RESTful API standard applicable to any web API"
}

Now classify the statement above.
`

// fallbackRationale marks statements classified by the error fallback
const fallbackRationale = "auto-classified due to error"

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	braceJSON  = regexp.MustCompile(`(?s)(\{.*?\})`)
)

// retrySleep is the backoff between transport retries (injectable for tests)
var retrySleep = time.Sleep

// rawClassification mirrors the JSON contract with the inference service
type rawClassification struct {
	Type      string `json:"type"`
	Context   string `json:"context"`
	Rationale string `json:"context_rationale"`
}

// Classifier classifies statements with a bounded worker pool
type Classifier struct {
	provider llm.Provider
	cache    cache.Cache // nil disables caching
	limiter  *worker.Limiter
	workers  int
	retries  int
	verbose  bool

	progress int64
	total    int64
}

// NewClassifier creates a new classifier
func NewClassifier(provider llm.Provider, responseCache cache.Cache, limiter *worker.Limiter, workers, retries int, verbose bool) *Classifier {
	if workers <= 0 {
		workers = 1
	}
	return &Classifier{
		provider: provider,
		cache:    responseCache,
		limiter:  limiter,
		workers:  workers,
		retries:  retries,
		verbose:  verbose,
	}
}

// ClassifyAll classifies every statement, dispatching calls across the
// worker pool and restoring original document order before returning.
// Enrichment depends on that order for its identifier invariants.
func (c *Classifier) ClassifyAll(ctx context.Context, statements []string) []model.ClassifiedStatement {
	if len(statements) == 0 {
		return []model.ClassifiedStatement{}
	}

	atomic.StoreInt64(&c.progress, 0)
	atomic.StoreInt64(&c.total, int64(len(statements)))

	pool := worker.NewPool(c.workers)
	pool.Start()

	for i, text := range statements {
		pool.Submit(&classifyJob{ordinal: i, text: text, classifier: c})
	}

	results := pool.Wait()

	classified := make([]model.ClassifiedStatement, 0, len(results))
	for _, r := range results {
		classified = append(classified, r.(*classifyResult).statement)
	}
	sort.Slice(classified, func(i, j int) bool {
		return classified[i].Ordinal < classified[j].Ordinal
	})

	return classified
}

// classifyJob is one statement's classification call
type classifyJob struct {
	ordinal    int
	text       string
	classifier *Classifier
}

// classifyResult wraps a classified statement for the pool
type classifyResult struct {
	statement model.ClassifiedStatement
}

// GetError always returns nil: the fallback guarantees a usable statement
func (r *classifyResult) GetError() error { return nil }

// Execute classifies one statement, falling back on any failure
func (j *classifyJob) Execute(ctx context.Context) worker.Result {
	c := j.classifier

	stmt := c.classifyOne(ctx, j.ordinal, j.text)

	done := atomic.AddInt64(&c.progress, 1)
	if c.verbose && done%10 == 0 {
		fmt.Fprintf(os.Stderr, "    Progress: %d/%d\n", done, atomic.LoadInt64(&c.total))
	}

	return &classifyResult{statement: stmt}
}

func (c *Classifier) classifyOne(ctx context.Context, ordinal int, text string) model.ClassifiedStatement {
	prompt := fmt.Sprintf(classificationPrompt, text)

	raw, err := c.completeWithCache(ctx, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "    ✗ Classification call failed for statement %d: %v\n", ordinal+1, err)
		return fallback(ordinal, text)
	}

	stmt, err := parseClassification(ordinal, text, raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "    ✗ Failed to parse classification for statement %d: %v\n", ordinal+1, err)
		fmt.Fprintf(os.Stderr, "    Response: %s\n", truncate(raw, 200))
		return fallback(ordinal, text)
	}

	return stmt
}

// completeWithCache consults the response cache, then calls the service
// with the configured retry-on-transport-failure policy
func (c *Classifier) completeWithCache(ctx context.Context, prompt string) (string, error) {
	key := cache.Key(prompt)

	if c.cache != nil {
		if cached, found := c.cache.Get(key); found {
			return string(cached), nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			retrySleep(2 * time.Second)
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limit: %w", err)
			}
		}

		resp, err := c.provider.Complete(ctx, llm.CompletionRequest{Prompt: prompt})
		if err != nil {
			lastErr = err
			continue
		}

		if c.cache != nil {
			_ = c.cache.Set(key, []byte(resp.Text), 0)
		}
		return resp.Text, nil
	}

	return "", lastErr
}

// parseClassification extracts and validates the JSON classification.
// Labels outside the closed taxonomies are errors, not new categories.
func parseClassification(ordinal int, text, response string) (model.ClassifiedStatement, error) {
	jsonStr := ExtractJSON(response)

	var raw rawClassification
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return model.ClassifiedStatement{}, fmt.Errorf("unmarshal: %w", err)
	}

	stmtType, err := model.ParseStatementType(raw.Type)
	if err != nil {
		return model.ClassifiedStatement{}, err
	}
	stmtContext, err := model.ParseStatementContext(raw.Context)
	if err != nil {
		return model.ClassifiedStatement{}, err
	}

	return model.ClassifiedStatement{
		Ordinal:   ordinal,
		Text:      text,
		Type:      stmtType,
		Context:   stmtContext,
		Rationale: raw.Rationale,
	}, nil
}

// ExtractJSON pulls the JSON object out of a response, preferring a
// fenced code block, then falling back to the first brace-delimited
// substring. Returns the input unchanged when neither matches.
func ExtractJSON(response string) string {
	if match := fencedJSON.FindStringSubmatch(response); match != nil {
		return match[1]
	}
	if match := braceJSON.FindStringSubmatch(response); match != nil {
		return match[1]
	}
	return response
}

// fallback is the safe default classification used whenever a call or
// parse fails
func fallback(ordinal int, text string) model.ClassifiedStatement {
	return model.ClassifiedStatement{
		Ordinal:   ordinal,
		Text:      text,
		Type:      model.TypeRequirement,
		Context:   model.ContextProject,
		Rationale: fallbackRationale,
	}
}

// truncate cuts s to at most n bytes, backing up to a rune boundary so
// the logged text stays valid UTF-8
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
