// Package project derives the three output artifacts from the enriched
// statement set. Each projection is pure: statements may appear in more
// than one artifact but are never altered by appearing in one.
package project

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stephen-devops/specsift/internal/model"
)

const generatedBy = "Requirements Ingestion (TYPE + CONTEXT taxonomy)"

// ContextDocument is the machine-consumable context artifact. The
// top-level keys are stable; downstream stages consume them by name.
type ContextDocument struct {
	Metadata       ContextMetadata   `yaml:"project_metadata"`
	Requirements   []RequirementItem `yaml:"requirements"`
	Constraints    []ConstraintItem  `yaml:"constraints"`
	Flows          []FlowItem        `yaml:"flows"`
	Interfaces     []InterfaceItem   `yaml:"interfaces"`
	DesignMandates []MandateItem     `yaml:"design_mandates"`
}

// ContextMetadata summarizes the run
type ContextMetadata struct {
	Generated           string `yaml:"generated"`
	Source              string `yaml:"source"`
	TotalStatements     int    `yaml:"total_statements"`
	EnvironmentSpecific int    `yaml:"environment_specific"`
	ProjectSpecific     int    `yaml:"project_specific"`
}

// RequirementItem is one Requirement statement in the context artifact
type RequirementItem struct {
	ID        string `yaml:"id"`
	Statement string `yaml:"statement"`
	Type      string `yaml:"type"`
	Context   string `yaml:"context"`
	Rationale string `yaml:"context_rationale"`
	Priority  string `yaml:"priority"`
	Category  string `yaml:"category"`
}

// ConstraintItem is one Constraint statement in the context artifact
type ConstraintItem struct {
	ID             string `yaml:"id"`
	Statement      string `yaml:"statement"`
	Context        string `yaml:"context"`
	Rationale      string `yaml:"context_rationale"`
	Priority       string `yaml:"priority"`
	Enforcement    string `yaml:"enforcement"`
	ValidationRule string `yaml:"validation_rule"`
}

// FlowItem is one Flow statement in the context artifact
type FlowItem struct {
	ID        string `yaml:"id"`
	Statement string `yaml:"statement"`
	Context   string `yaml:"context"`
	Rationale string `yaml:"context_rationale"`
	Trigger   string `yaml:"trigger"`
	Outcome   string `yaml:"outcome"`
}

// InterfaceItem is one Interface statement in the context artifact
type InterfaceItem struct {
	ID        string `yaml:"id"`
	Statement string `yaml:"statement"`
	Context   string `yaml:"context"`
	Rationale string `yaml:"context_rationale"`
	Kind      string `yaml:"interface_type"`
}

// MandateItem is an Environment-specific Design statement: a
// non-negotiable instruction for the technical-design stage
type MandateItem struct {
	ID        string `yaml:"id"`
	Statement string `yaml:"statement"`
	Rationale string `yaml:"context_rationale"`
	Pattern   string `yaml:"pattern"`
	Note      string `yaml:"note"`
}

// BuildContext assembles the context document from the enriched set
func BuildContext(enriched []model.EnrichedStatement, now time.Time) ContextDocument {
	doc := ContextDocument{
		Metadata: ContextMetadata{
			Generated:       now.Format("2006-01-02 15:04:05"),
			Source:          generatedBy,
			TotalStatements: len(enriched),
		},
		Requirements:   []RequirementItem{},
		Constraints:    []ConstraintItem{},
		Flows:          []FlowItem{},
		Interfaces:     []InterfaceItem{},
		DesignMandates: []MandateItem{},
	}

	for _, stmt := range enriched {
		if stmt.Context == model.ContextEnvironment {
			doc.Metadata.EnvironmentSpecific++
		} else {
			doc.Metadata.ProjectSpecific++
		}

		switch stmt.Type {
		case model.TypeRequirement:
			doc.Requirements = append(doc.Requirements, RequirementItem{
				ID:        stmt.ID,
				Statement: stmt.Text,
				Type:      string(stmt.Type),
				Context:   string(stmt.Context),
				Rationale: stmt.Rationale,
				Priority:  string(stmt.Priority),
				Category:  stmt.Category,
			})
		case model.TypeConstraint:
			doc.Constraints = append(doc.Constraints, ConstraintItem{
				ID:             stmt.ID,
				Statement:      stmt.Text,
				Context:        string(stmt.Context),
				Rationale:      stmt.Rationale,
				Priority:       string(stmt.Priority),
				Enforcement:    stmt.Enforcement,
				ValidationRule: stmt.ValidationRule,
			})
		case model.TypeFlow:
			doc.Flows = append(doc.Flows, FlowItem{
				ID:        stmt.ID,
				Statement: stmt.Text,
				Context:   string(stmt.Context),
				Rationale: stmt.Rationale,
				Trigger:   stmt.Trigger,
				Outcome:   stmt.Outcome,
			})
		case model.TypeInterface:
			doc.Interfaces = append(doc.Interfaces, InterfaceItem{
				ID:        stmt.ID,
				Statement: stmt.Text,
				Context:   string(stmt.Context),
				Rationale: stmt.Rationale,
				Kind:      string(stmt.InterfaceKind),
			})
		case model.TypeDesign:
			if stmt.Context == model.ContextEnvironment {
				doc.DesignMandates = append(doc.DesignMandates, MandateItem{
					ID:        stmt.ID,
					Statement: stmt.Text,
					Rationale: stmt.Rationale,
					Pattern:   stmt.Pattern,
					Note:      "Non-negotiable - environment-specific requirement",
				})
			}
		}
	}

	return doc
}

// RenderContext serializes the context document to YAML
func RenderContext(enriched []model.EnrichedStatement, now time.Time) (string, error) {
	doc := BuildContext(enriched, now)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal context document: %w", err)
	}
	return string(data), nil
}
