package project

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// legacyStatement is one entry of the old flat context format, which
// carried every statement in a single list keyed by "statements"
type legacyStatement struct {
	ID             string `yaml:"id"`
	Statement      string `yaml:"statement"`
	Type           string `yaml:"type"`
	Context        string `yaml:"context"`
	Rationale      string `yaml:"context_rationale"`
	Priority       string `yaml:"priority"`
	Category       string `yaml:"category"`
	Enforcement    string `yaml:"enforcement"`
	ValidationRule string `yaml:"validation_rule"`
	Trigger        string `yaml:"trigger"`
	Outcome        string `yaml:"outcome"`
	InterfaceType  string `yaml:"interface_type"`
	Pattern        string `yaml:"pattern"`
}

type legacyDocument struct {
	Statements []legacyStatement `yaml:"statements"`
}

// LoadContext parses a context artifact produced by this pipeline or by
// the legacy flat format. The format is probed by key: the current
// shape carries "project_metadata" plus the per-type lists; the legacy
// shape carried a single "statements" list.
func LoadContext(data []byte) (*ContextDocument, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse context document: %w", err)
	}

	if _, ok := probe["project_metadata"]; ok {
		var doc ContextDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse context document: %w", err)
		}
		return &doc, nil
	}

	if _, ok := probe["statements"]; ok {
		return loadLegacy(data)
	}

	return nil, fmt.Errorf("unrecognized context document: no project_metadata or statements key")
}

// loadLegacy converts the flat legacy list into the current shape
func loadLegacy(data []byte) (*ContextDocument, error) {
	var legacy legacyDocument
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parse legacy context document: %w", err)
	}

	doc := &ContextDocument{
		Requirements:   []RequirementItem{},
		Constraints:    []ConstraintItem{},
		Flows:          []FlowItem{},
		Interfaces:     []InterfaceItem{},
		DesignMandates: []MandateItem{},
	}
	doc.Metadata.Source = "legacy context document"
	doc.Metadata.TotalStatements = len(legacy.Statements)

	for _, s := range legacy.Statements {
		if s.Context == "Environment-specific" {
			doc.Metadata.EnvironmentSpecific++
		} else {
			doc.Metadata.ProjectSpecific++
		}

		switch s.Type {
		case "Requirement":
			doc.Requirements = append(doc.Requirements, RequirementItem{
				ID:        s.ID,
				Statement: s.Statement,
				Type:      s.Type,
				Context:   s.Context,
				Rationale: s.Rationale,
				Priority:  s.Priority,
				Category:  s.Category,
			})
		case "Constraint":
			doc.Constraints = append(doc.Constraints, ConstraintItem{
				ID:             s.ID,
				Statement:      s.Statement,
				Context:        s.Context,
				Rationale:      s.Rationale,
				Priority:       s.Priority,
				Enforcement:    s.Enforcement,
				ValidationRule: s.ValidationRule,
			})
		case "Flow":
			doc.Flows = append(doc.Flows, FlowItem{
				ID:        s.ID,
				Statement: s.Statement,
				Context:   s.Context,
				Rationale: s.Rationale,
				Trigger:   s.Trigger,
				Outcome:   s.Outcome,
			})
		case "Interface":
			doc.Interfaces = append(doc.Interfaces, InterfaceItem{
				ID:        s.ID,
				Statement: s.Statement,
				Context:   s.Context,
				Rationale: s.Rationale,
				Kind:      s.InterfaceType,
			})
		case "Design":
			if s.Context == "Environment-specific" {
				doc.DesignMandates = append(doc.DesignMandates, MandateItem{
					ID:        s.ID,
					Statement: s.Statement,
					Rationale: s.Rationale,
					Pattern:   s.Pattern,
					Note:      "Non-negotiable - environment-specific requirement",
				})
			}
		}
	}

	return doc, nil
}
