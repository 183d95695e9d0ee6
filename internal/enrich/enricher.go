// Package enrich deterministically augments classified statements with
// type-scoped identifiers, routing destinations, priority tiers and
// type-specific fields. It makes no external calls; running it twice on
// the same input yields identical output.
package enrich

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stephen-devops/specsift/internal/model"
)

// tbd marks a field that needs human resolution. It is a valid value,
// never an error.
const tbd = "TBD"

// typePrefixes maps each statement type to its identifier prefix.
// Interface uses IFC rather than sharing INT with Intent so the two
// sequences stay distinguishable downstream.
var typePrefixes = map[model.StatementType]string{
	model.TypeIntent:      "INT",
	model.TypeRequirement: "REQ",
	model.TypeConstraint:  "CON",
	model.TypeFlow:        "FLOW",
	model.TypeInterface:   "IFC",
	model.TypeDesign:      "DES",
}

// routingMap fixes each statement's output artifacts by type alone
var routingMap = map[model.StatementType][]model.Artifact{
	model.TypeIntent:      {model.ArtifactGoals},
	model.TypeRequirement: {model.ArtifactGoals, model.ArtifactContext},
	model.TypeConstraint:  {model.ArtifactContext},
	model.TypeFlow:        {model.ArtifactContext},
	model.TypeInterface:   {model.ArtifactContext},
	model.TypeDesign:      {model.ArtifactSeeds},
}

// Priority keyword tiers, checked in strict precedence
var (
	p0Keywords = []string{"must", "shall", "required", "mandatory", "critical"}
	p1Keywords = []string{"should", "important", "notification", "status"}
)

var (
	numberBound = regexp.MustCompile(`(\d[\d,]*)`)
	afterClause = regexp.MustCompile(`after\s+(.+?),`)
	whenClause  = regexp.MustCompile(`when\s+(.+?),`)
)

// Enrich processes classified statements in original order. Counters
// are local to the call: every invocation restarts numbering at 1.
func Enrich(classified []model.ClassifiedStatement) []model.EnrichedStatement {
	counters := make(map[model.StatementType]int, len(typePrefixes))
	enriched := make([]model.EnrichedStatement, 0, len(classified))

	for _, stmt := range classified {
		counters[stmt.Type]++

		e := model.EnrichedStatement{
			ClassifiedStatement: stmt,
			ID:                  fmt.Sprintf("%s-%03d", typePrefixes[stmt.Type], counters[stmt.Type]),
			Routing:             routingMap[stmt.Type],
			Priority:            InferPriority(stmt.Text),
		}

		switch stmt.Type {
		case model.TypeRequirement:
			e.Category = InferCategory(stmt.Text)
			e.AcceptanceCriteria = []string{}
		case model.TypeConstraint:
			e.Enforcement = InferEnforcement(stmt.Text)
			e.ValidationRule = ExtractValidationRule(stmt.Text)
		case model.TypeFlow:
			e.Trigger = ExtractTrigger(stmt.Text)
			e.Outcome = ExtractOutcome(stmt.Text)
		case model.TypeInterface:
			e.InterfaceKind = InferInterfaceKind(stmt.Text)
		case model.TypeDesign:
			e.Pattern = ExtractPattern(stmt.Text)
		}

		enriched = append(enriched, e)
	}

	return enriched
}

// InferPriority scans the statement for tiered keyword sets. P0
// keywords win over P1; anything else is P2.
func InferPriority(statement string) model.Priority {
	text := strings.ToLower(statement)

	for _, word := range p0Keywords {
		if strings.Contains(text, word) {
			return model.PriorityP0
		}
	}
	for _, word := range p1Keywords {
		if strings.Contains(text, word) {
			return model.PriorityP1
		}
	}
	return model.PriorityP2
}

// InferCategory buckets a Requirement statement by keyword
func InferCategory(statement string) string {
	text := strings.ToLower(statement)

	switch {
	case strings.Contains(text, "upload"):
		return "File Upload"
	case strings.Contains(text, "template") || strings.Contains(text, "download"):
		return "File Template Management"
	case strings.Contains(text, "validat") || strings.Contains(text, "error"):
		return "Validation & Errors"
	case strings.Contains(text, "approv"):
		return "Approval Workflow"
	case strings.Contains(text, "status") || strings.Contains(text, "track"):
		return "Status Tracking"
	case strings.Contains(text, "notif"):
		return "Notifications"
	default:
		return "General"
	}
}

// InferEnforcement grades a Constraint statement
func InferEnforcement(statement string) string {
	text := strings.ToLower(statement)

	switch {
	case strings.Contains(text, "must") || strings.Contains(text, "shall"):
		return "Hard constraint"
	case strings.Contains(text, "should"):
		return "Soft constraint"
	default:
		return "Validation rule"
	}
}

// ExtractValidationRule attempts to derive a machine-checkable rule
// from a Constraint statement
func ExtractValidationRule(statement string) string {
	text := strings.ToLower(statement)

	switch {
	case strings.Contains(text, "positive") && strings.Contains(text, "amount"):
		return "amount > 0"
	case strings.Contains(text, "up to") || strings.Contains(text, "maximum"):
		if match := numberBound.FindStringSubmatch(text); match != nil {
			return "<= " + match[1]
		}
	case strings.Contains(text, "required") || strings.Contains(text, "must include"):
		return "NOT NULL"
	}

	return tbd
}

// ExtractTrigger pulls the triggering condition from a Flow statement
func ExtractTrigger(statement string) string {
	text := strings.ToLower(statement)

	if strings.Contains(text, "after") {
		if match := afterClause.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	} else if strings.Contains(text, "when") {
		if match := whenClause.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}

	return tbd
}

// ExtractOutcome pulls the resulting state from a Flow statement
func ExtractOutcome(statement string) string {
	parts := strings.Split(statement, ",")
	if len(parts) > 1 {
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return tbd
}

// InferInterfaceKind categorizes an Interface statement. API contracts
// belong to the technical track; CSV and UI are user-facing.
func InferInterfaceKind(statement string) model.InterfaceKind {
	text := strings.ToLower(statement)

	switch {
	case strings.Contains(text, "api") || strings.Contains(text, "endpoint"):
		return model.InterfaceAPI
	case strings.Contains(text, "csv"):
		return model.InterfaceCSV
	default:
		return model.InterfaceUI
	}
}

// ExtractPattern names a design pattern for a Design statement
func ExtractPattern(statement string) string {
	text := strings.ToLower(statement)

	switch {
	case strings.Contains(text, "queue") || strings.Contains(text, "async"):
		return "Async Processing Pattern"
	case strings.Contains(text, "service") && strings.Contains(text, "layer"):
		return "Service Layer Pattern"
	case strings.Contains(text, "controller"):
		return "Controller Pattern"
	case strings.Contains(text, "scope") || strings.Contains(text, "tenant"):
		return "Multi-Tenancy Pattern"
	default:
		return "Design Pattern"
	}
}
