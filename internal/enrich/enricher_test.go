package enrich

import (
	"reflect"
	"testing"

	"github.com/stephen-devops/specsift/internal/model"
)

func classified(ordinal int, text string, t model.StatementType, c model.StatementContext) model.ClassifiedStatement {
	return model.ClassifiedStatement{
		Ordinal:   ordinal,
		Text:      text,
		Type:      t,
		Context:   c,
		Rationale: "test",
	}
}

func TestEnrich_TypeScopedSequentialIDs(t *testing.T) {
	input := []model.ClassifiedStatement{
		classified(0, "Enable fast payments", model.TypeIntent, model.ContextProject),
		classified(1, "Users can upload files", model.TypeRequirement, model.ContextProject),
		classified(2, "Users can track status", model.TypeRequirement, model.ContextProject),
		classified(3, "Provide clear errors", model.TypeIntent, model.ContextProject),
		classified(4, "Amounts must be positive", model.TypeConstraint, model.ContextProject),
	}

	enriched := Enrich(input)

	wantIDs := []string{"INT-001", "REQ-001", "REQ-002", "INT-002", "CON-001"}
	for i, want := range wantIDs {
		if enriched[i].ID != want {
			t.Errorf("statement %d: ID = %s, want %s", i, enriched[i].ID, want)
		}
	}
}

func TestEnrich_IntentAndInterfacePrefixesDistinct(t *testing.T) {
	input := []model.ClassifiedStatement{
		classified(0, "Enable bulk payments", model.TypeIntent, model.ContextProject),
		classified(1, "POST /api/v1/payments uploads a file", model.TypeInterface, model.ContextProject),
	}

	enriched := Enrich(input)

	if enriched[0].ID != "INT-001" {
		t.Errorf("Intent ID = %s, want INT-001", enriched[0].ID)
	}
	if enriched[1].ID != "IFC-001" {
		t.Errorf("Interface ID = %s, want IFC-001", enriched[1].ID)
	}
}

func TestEnrich_Deterministic(t *testing.T) {
	input := []model.ClassifiedStatement{
		classified(0, "Users must upload CSV files", model.TypeRequirement, model.ContextProject),
		classified(1, "After upload, the file is validated", model.TypeFlow, model.ContextProject),
		classified(2, "Use queue jobs for async processing", model.TypeDesign, model.ContextProject),
	}

	first := Enrich(input)
	second := Enrich(input)

	if !reflect.DeepEqual(first, second) {
		t.Error("Enrich is not deterministic: two runs differ")
	}
}

func TestEnrich_RoutingIsPureFunctionOfType(t *testing.T) {
	cases := []struct {
		stmtType model.StatementType
		want     []model.Artifact
	}{
		{model.TypeIntent, []model.Artifact{model.ArtifactGoals}},
		{model.TypeRequirement, []model.Artifact{model.ArtifactGoals, model.ArtifactContext}},
		{model.TypeConstraint, []model.Artifact{model.ArtifactContext}},
		{model.TypeFlow, []model.Artifact{model.ArtifactContext}},
		{model.TypeInterface, []model.Artifact{model.ArtifactContext}},
		{model.TypeDesign, []model.Artifact{model.ArtifactSeeds}},
	}

	for _, c := range cases {
		enriched := Enrich([]model.ClassifiedStatement{
			classified(0, "some text", c.stmtType, model.ContextProject),
		})
		if !reflect.DeepEqual(enriched[0].Routing, c.want) {
			t.Errorf("%s routing = %v, want %v", c.stmtType, enriched[0].Routing, c.want)
		}
	}

	// Constraints never reach the goals document
	enriched := Enrich([]model.ClassifiedStatement{
		classified(0, "System shall cap uploads", model.TypeConstraint, model.ContextEnvironment),
	})
	if enriched[0].RoutesTo(model.ArtifactGoals) {
		t.Error("Constraint must not route to the goals document")
	}
}

func TestInferPriority(t *testing.T) {
	cases := []struct {
		statement string
		want      model.Priority
	}{
		{"System must validate uploads", model.PriorityP0},
		{"Payments shall be positive", model.PriorityP0},
		{"This field is mandatory", model.PriorityP0},
		{"System should send reminders", model.PriorityP1},
		{"Send a notification on completion", model.PriorityP1},
		{"Users can pick a theme color", model.PriorityP2},
		// P0 wins even when a P1 keyword is also present
		{"System must send a notification", model.PriorityP0},
	}

	for _, c := range cases {
		if got := InferPriority(c.statement); got != c.want {
			t.Errorf("InferPriority(%q) = %s, want %s", c.statement, got, c.want)
		}
	}
}

func TestInferEnforcement(t *testing.T) {
	cases := []struct {
		statement string
		want      string
	}{
		{"Amounts must be positive", "Hard constraint"},
		{"Files shall not exceed 10MB", "Hard constraint"},
		{"Names should be unique", "Soft constraint"},
		{"Dates formatted as ISO 8601", "Validation rule"},
	}

	for _, c := range cases {
		if got := InferEnforcement(c.statement); got != c.want {
			t.Errorf("InferEnforcement(%q) = %q, want %q", c.statement, got, c.want)
		}
	}
}

func TestExtractValidationRule(t *testing.T) {
	cases := []struct {
		statement string
		want      string
	}{
		{"Payment amounts must be positive numeric values", "amount > 0"},
		{"System shall support up to 10,000 payment rows per file", "<= 10,000"},
		{"INR payments must include Invoice Number", "NOT NULL"},
		{"Dates use the Gregorian calendar", "TBD"},
	}

	for _, c := range cases {
		if got := ExtractValidationRule(c.statement); got != c.want {
			t.Errorf("ExtractValidationRule(%q) = %q, want %q", c.statement, got, c.want)
		}
	}
}

func TestFlowTriggerAndOutcome(t *testing.T) {
	stmt := "After upload completes, the file moves to Validating"
	if got := ExtractTrigger(stmt); got != "upload completes" {
		t.Errorf("ExtractTrigger = %q", got)
	}
	if got := ExtractOutcome(stmt); got != "the file moves to Validating" {
		t.Errorf("ExtractOutcome = %q", got)
	}

	noClause := "Processing happens in the background"
	if got := ExtractTrigger(noClause); got != "TBD" {
		t.Errorf("Expected TBD trigger, got %q", got)
	}
	if got := ExtractOutcome(noClause); got != "TBD" {
		t.Errorf("Expected TBD outcome, got %q", got)
	}
}

func TestInferInterfaceKind(t *testing.T) {
	cases := []struct {
		statement string
		want      model.InterfaceKind
	}{
		{"POST /api/v1/mass-payments uploads a file", model.InterfaceAPI},
		{"The CSV includes a beneficiary column", model.InterfaceCSV},
		{"The dashboard shows upload progress", model.InterfaceUI},
	}

	for _, c := range cases {
		if got := InferInterfaceKind(c.statement); got != c.want {
			t.Errorf("InferInterfaceKind(%q) = %s, want %s", c.statement, got, c.want)
		}
	}
}

func TestExtractPattern(t *testing.T) {
	cases := []struct {
		statement string
		want      string
	}{
		{"Use background queue jobs for async file processing", "Async Processing Pattern"},
		{"Put business logic in a service layer", "Service Layer Pattern"},
		{"Design thin controllers", "Controller Pattern"},
		{"Filter all queries by client_id for tenant isolation", "Multi-Tenancy Pattern"},
		{"Favor composition over inheritance", "Design Pattern"},
	}

	for _, c := range cases {
		if got := ExtractPattern(c.statement); got != c.want {
			t.Errorf("ExtractPattern(%q) = %q, want %q", c.statement, got, c.want)
		}
	}
}
