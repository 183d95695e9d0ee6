package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stephen-devops/specsift/internal/llm"
	"github.com/stephen-devops/specsift/internal/model"
)

// fakeProvider answers segmentation requests with a numbered list and
// classification requests with per-statement JSON.
type fakeProvider struct {
	segments        string
	classifications map[string]string // statement substring -> JSON response
	calls           int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	if strings.Contains(req.Prompt, "segmenting a requirements document") {
		return &llm.CompletionResponse{Text: f.segments}, nil
	}
	for substr, response := range f.classifications {
		if strings.Contains(req.Prompt, substr) {
			return &llm.CompletionResponse{Text: response}, nil
		}
	}
	return &llm.CompletionResponse{Text: "no idea"}, nil
}

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.LLM.RequestsPerSecond = 0 // unlimited
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func classificationJSON(typ, context, rationale string) string {
	return `{"type": "` + typ + `", "context": "` + context + `", "context_rationale": "` + rationale + `"}`
}

func TestIngest_ProducesAllThreeArtifacts(t *testing.T) {
	provider := &fakeProvider{
		segments: "1. The system must process payments\n" +
			"2. We want to automate payouts for our clients\n" +
			"3. Payments go through the bank's SWIFT gateway",
		classifications: map[string]string{
			"must process payments": classificationJSON("Requirement", "Project-specific", "business feature"),
			"automate payouts":      classificationJSON("Intent", "Project-specific", "business goal"),
			"SWIFT gateway":         classificationJSON("Constraint", "Environment-specific", "external banking system"),
		},
	}
	cfg := testConfig(t)

	source := filepath.Join(t.TempDir(), "reqs.txt")
	if err := os.WriteFile(source, []byte("raw requirements text"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewWithProvider(cfg, provider)
	result, err := p.Ingest(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if len(result.Statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(result.Statements))
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	for _, name := range []string{GoalsFile, ContextFile, SeedsFile} {
		if result.Artifacts[name] == "" {
			t.Errorf("artifact %s is empty", name)
		}
	}
	if !strings.Contains(result.Artifacts[GoalsFile], "REQ-001") {
		t.Error("goals artifact missing requirement ID")
	}
	if !strings.Contains(result.Artifacts[ContextFile], "environment_specific: 1") {
		t.Errorf("context artifact missing environment count:\n%s", result.Artifacts[ContextFile])
	}
}

func TestIngest_FallbackStillYieldsArtifacts(t *testing.T) {
	// Classifier gets garbage back for every statement; everything
	// should fall back to Requirement / Project-specific.
	provider := &fakeProvider{
		segments:        "1. Something vague\n2. Something else",
		classifications: map[string]string{},
	}
	cfg := testConfig(t)

	source := filepath.Join(t.TempDir(), "vague.md")
	if err := os.WriteFile(source, []byte("vague notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewWithProvider(cfg, provider)
	result, err := p.Ingest(context.Background(), []string{source})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	for _, s := range result.Statements {
		if s.Type != model.TypeRequirement {
			t.Errorf("statement %q: type = %v, want fallback Requirement", s.Text, s.Type)
		}
	}
	if len(result.Warnings) == 0 {
		t.Error("expected validation warnings for all-fallback corpus")
	}
	for _, name := range []string{GoalsFile, ContextFile, SeedsFile} {
		if result.Artifacts[name] == "" {
			t.Errorf("artifact %s is empty", name)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	cfg := testConfig(t)
	p := NewWithProvider(cfg, &fakeProvider{})

	result := &Result{
		RunID: "01TESTRUN0000000000000000",
		Artifacts: map[string]string{
			GoalsFile:   "# Product Manager Input\n",
			ContextFile: "project_metadata:\n",
			SeedsFile:   "# Architectural Seeds & Design Guidance\n",
		},
	}
	if err := p.WriteArtifacts(result); err != nil {
		t.Fatalf("WriteArtifacts() error = %v", err)
	}

	wantDir := filepath.Join(cfg.Output.Dir, result.RunID)
	if result.OutputDir != wantDir {
		t.Errorf("OutputDir = %q, want %q", result.OutputDir, wantDir)
	}
	for name, wantContent := range result.Artifacts {
		data, err := os.ReadFile(filepath.Join(wantDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != wantContent {
			t.Errorf("%s content mismatch", name)
		}
	}
}

func TestIngest_EmptySourcesStillProducesArtifacts(t *testing.T) {
	cfg := testConfig(t)
	p := NewWithProvider(cfg, &fakeProvider{})

	result, err := p.Ingest(context.Background(), nil)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if len(result.Statements) != 0 {
		t.Errorf("got %d statements, want 0", len(result.Statements))
	}
	for _, name := range []string{GoalsFile, ContextFile, SeedsFile} {
		if result.Artifacts[name] == "" {
			t.Errorf("artifact %s is empty", name)
		}
	}
}
