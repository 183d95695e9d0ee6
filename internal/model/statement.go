package model

import "fmt"

// StatementType is the closed six-way TYPE taxonomy for classified statements
type StatementType string

const (
	TypeIntent      StatementType = "Intent"      // High-level goals
	TypeRequirement StatementType = "Requirement" // Concrete capabilities
	TypeConstraint  StatementType = "Constraint"  // Must/shall rules and limits
	TypeFlow        StatementType = "Flow"        // Sequences and state transitions
	TypeInterface   StatementType = "Interface"   // API endpoints, file columns, UI screens
	TypeDesign      StatementType = "Design"      // Technical decisions
)

// StatementTypes lists all valid statement types in declaration order
var StatementTypes = []StatementType{
	TypeIntent,
	TypeRequirement,
	TypeConstraint,
	TypeFlow,
	TypeInterface,
	TypeDesign,
}

// ParseStatementType converts a raw label into a StatementType.
// Any label outside the closed set is an error, never a new category.
func ParseStatementType(s string) (StatementType, error) {
	for _, t := range StatementTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown statement type: %q", s)
}

// StatementContext is the closed two-way CONTEXT taxonomy.
// The boundary question is: would this statement be the same in a
// different, comparable deployment? Same means project-specific,
// different means environment-specific.
type StatementContext string

const (
	ContextEnvironment StatementContext = "Environment-specific"
	ContextProject     StatementContext = "Project-specific"
)

// ParseStatementContext converts a raw label into a StatementContext
func ParseStatementContext(s string) (StatementContext, error) {
	switch StatementContext(s) {
	case ContextEnvironment:
		return ContextEnvironment, nil
	case ContextProject:
		return ContextProject, nil
	}
	return "", fmt.Errorf("unknown statement context: %q", s)
}

// Priority is the inferred priority tier of a statement
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

// Artifact names one of the three output documents a statement can route to
type Artifact string

const (
	ArtifactGoals   Artifact = "PM_Input"        // goals/capabilities document
	ArtifactContext Artifact = "Context"         // structured context document
	ArtifactSeeds   Artifact = "Architect_Seeds" // design-seed document
)

// InterfaceKind categorizes Interface statements
type InterfaceKind string

const (
	InterfaceAPI InterfaceKind = "API" // API contract, technical track only
	InterfaceCSV InterfaceKind = "CSV" // data-file format, user-facing
	InterfaceUI  InterfaceKind = "UI"  // user interface, user-facing
)

// SourceKind identifies the format of a source document
type SourceKind string

const (
	KindText     SourceKind = "txt"
	KindMarkdown SourceKind = "md"
	KindHTML     SourceKind = "html"
	KindPDF      SourceKind = "pdf"  // body extraction not implemented
	KindPPTX     SourceKind = "pptx" // body extraction not implemented
)

// SourceDocument is one input document read into memory.
// It lives only between loading and segmentation.
type SourceDocument struct {
	Origin  string     `json:"origin"` // file path or URL
	Kind    SourceKind `json:"kind"`
	Content string     `json:"content"`
}

// ClassifiedStatement is an atomic statement with its TYPE and CONTEXT
// labels. After classification both labels are always populated; the
// classifier's fallback guarantees it.
type ClassifiedStatement struct {
	Ordinal   int              `json:"ordinal"` // position in original document order
	Text      string           `json:"statement"`
	Type      StatementType    `json:"type"`
	Context   StatementContext `json:"context"`
	Rationale string           `json:"context_rationale"`
}

// EnrichedStatement is a classified statement plus the deterministic
// metadata added by the enricher.
type EnrichedStatement struct {
	ClassifiedStatement

	ID       string     `json:"id"` // type-scoped, e.g. REQ-001
	Routing  []Artifact `json:"routing"`
	Priority Priority   `json:"priority"`

	// Requirement
	Category           string   `json:"category,omitempty"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`

	// Constraint
	Enforcement    string `json:"enforcement,omitempty"`
	ValidationRule string `json:"validation_rule,omitempty"`

	// Flow
	Trigger string `json:"trigger,omitempty"`
	Outcome string `json:"outcome,omitempty"`

	// Interface
	InterfaceKind InterfaceKind `json:"interface_type,omitempty"`

	// Design
	Pattern string `json:"pattern,omitempty"`
}

// RoutesTo reports whether the statement is projected into the given artifact
func (s *EnrichedStatement) RoutesTo(a Artifact) bool {
	for _, r := range s.Routing {
		if r == a {
			return true
		}
	}
	return false
}
