package segment

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stephen-devops/specsift/internal/llm"
	"github.com/stephen-devops/specsift/internal/model"
)

// fakeProvider returns canned responses and records prompts
type fakeProvider struct {
	responses []string
	calls     int
	err       error
}

func (f *fakeProvider) Name() string                            { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool    { return true }
func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	defer func() { f.calls++ }()
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[f.calls%len(f.responses)]
	return &llm.CompletionResponse{Text: resp, Model: "fake"}, nil
}

func TestChunkLines_RespectsBudget(t *testing.T) {
	// Each line is 5 tokens; budget of 10 fits two lines per chunk
	var lines []string
	for i := 0; i < 6; i++ {
		lines = append(lines, "one two three four five")
	}
	chunks := ChunkLines(strings.Join(lines, "\n"), 10)

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if got := len(strings.Split(chunk, "\n")); got != 2 {
			t.Errorf("Chunk %d has %d lines, want 2", i, got)
		}
	}
}

func TestChunkLines_NeverSplitsALine(t *testing.T) {
	// A single line over budget still lands whole in its own chunk
	long := strings.Repeat("word ", 50)
	chunks := ChunkLines("short line\n"+long, 10)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if strings.TrimSpace(chunks[1]) != strings.TrimSpace(long) {
		t.Errorf("Oversized line was split across chunks")
	}
}

func TestChunkLines_SmallDocumentSingleChunk(t *testing.T) {
	chunks := ChunkLines("a few words here", 3000)
	if len(chunks) != 1 {
		t.Fatalf("Expected single chunk, got %d", len(chunks))
	}
}

func TestChunkLines_WhitespaceOnlyYieldsNoChunks(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\n\n", " \n\t\n  "} {
		if chunks := ChunkLines(content, 3000); len(chunks) != 0 {
			t.Errorf("ChunkLines(%q) = %d chunks, want 0", content, len(chunks))
		}
	}
}

func TestSegment_EmptyDocumentCostsNoCalls(t *testing.T) {
	provider := &fakeProvider{responses: []string{"1. should never appear"}}
	seg := NewSegmenter(provider, nil, 3000, false)

	docs := []model.SourceDocument{{
		Origin:  "blank.txt",
		Kind:    model.KindText,
		Content: "\n  \n\t\n",
	}}

	statements := seg.Segment(context.Background(), docs)

	if provider.calls != 0 {
		t.Errorf("Expected no inference calls for a blank document, got %d", provider.calls)
	}
	if len(statements) != 0 {
		t.Errorf("Expected no statements, got %d", len(statements))
	}
}

func TestParseNumberedList_Formats(t *testing.T) {
	response := `Here are the statements:
1. Users can upload CSV files
2) CSV files can contain up to 10,000 rows
3: System validates format asynchronously
- this bullet is discarded
Closing remark also discarded.`

	statements, skipped := ParseNumberedList(response)

	want := []string{
		"Users can upload CSV files",
		"CSV files can contain up to 10,000 rows",
		"System validates format asynchronously",
	}
	if len(statements) != len(want) {
		t.Fatalf("Expected %d statements, got %d: %v", len(want), len(statements), statements)
	}
	for i := range want {
		if statements[i] != want[i] {
			t.Errorf("Statement %d = %q, want %q", i, statements[i], want[i])
		}
	}
	if skipped != 3 {
		t.Errorf("Expected 3 skipped lines, got %d", skipped)
	}
}

func TestSegment_OneCallPerChunk(t *testing.T) {
	provider := &fakeProvider{responses: []string{"1. statement one\n2. statement two"}}
	seg := NewSegmenter(provider, nil, 10, false)

	var lines []string
	for i := 0; i < 4; i++ {
		lines = append(lines, "one two three four five")
	}
	docs := []model.SourceDocument{{
		Origin:  "reqs.txt",
		Kind:    model.KindText,
		Content: strings.Join(lines, "\n"),
	}}

	statements := seg.Segment(context.Background(), docs)

	if provider.calls != 2 {
		t.Errorf("Expected 2 inference calls (one per chunk), got %d", provider.calls)
	}
	if len(statements) != 4 {
		t.Errorf("Expected 4 statements, got %d", len(statements))
	}
}

func TestSegment_FailedChunkDropped(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("service unavailable")}
	seg := NewSegmenter(provider, nil, 3000, false)

	docs := []model.SourceDocument{{
		Origin:  "reqs.txt",
		Kind:    model.KindText,
		Content: "Users can upload files.",
	}}

	statements := seg.Segment(context.Background(), docs)
	if len(statements) != 0 {
		t.Errorf("Expected no statements from failing provider, got %d", len(statements))
	}
}
