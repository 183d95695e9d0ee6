package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/stephen-devops/specsift/internal/model"
)

// RenderGoals produces the human-readable goals/capabilities document:
// Intent statements, then Requirements grouped by category, then the
// user-facing Interface statements. API-contract interfaces are
// excluded; they belong to the technical track.
func RenderGoals(enriched []model.EnrichedStatement, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Product Manager Input\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Source:** %s\n\n", generatedBy)

	// Section 1: project intent
	b.WriteString("## Project Intent\n\n")
	intents := filterByType(enriched, model.TypeIntent)
	if len(intents) == 0 {
		b.WriteString("*No intent statements found*\n")
	}
	for _, stmt := range intents {
		fmt.Fprintf(&b, "- **%s**: %s\n", stmt.ID, stmt.Text)
		if stmt.Context == model.ContextEnvironment {
			fmt.Fprintf(&b, "  - *Environment-specific*: %s\n", stmt.Rationale)
		}
	}
	b.WriteString("\n")

	// Section 2: requirements grouped by category
	b.WriteString("## User Requirements\n\n")
	requirements := filterByType(enriched, model.TypeRequirement)
	if len(requirements) == 0 {
		b.WriteString("*No requirements found*\n")
	}
	for _, category := range categoriesInOrder(requirements) {
		fmt.Fprintf(&b, "### %s\n\n", category)
		for _, stmt := range requirements {
			if stmt.Category != category {
				continue
			}
			fmt.Fprintf(&b, "- **%s** [%s]: %s\n", stmt.ID, stmt.Priority, stmt.Text)
			if stmt.Context == model.ContextEnvironment {
				fmt.Fprintf(&b, "  - *Environment-specific*: %s\n", stmt.Rationale)
			}
		}
		b.WriteString("\n")
	}

	// Section 3: user-facing interfaces (UI and data-file formats only)
	var userFacing []model.EnrichedStatement
	for _, stmt := range filterByType(enriched, model.TypeInterface) {
		if stmt.InterfaceKind == model.InterfaceUI || stmt.InterfaceKind == model.InterfaceCSV {
			userFacing = append(userFacing, stmt)
		}
	}
	if len(userFacing) > 0 {
		b.WriteString("## User-Facing Interfaces\n\n")
		for _, stmt := range userFacing {
			fmt.Fprintf(&b, "- **%s**: %s\n", stmt.ID, stmt.Text)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func filterByType(enriched []model.EnrichedStatement, t model.StatementType) []model.EnrichedStatement {
	var out []model.EnrichedStatement
	for _, stmt := range enriched {
		if stmt.Type == t {
			out = append(out, stmt)
		}
	}
	return out
}

// categoriesInOrder returns distinct categories in first-appearance order
func categoriesInOrder(requirements []model.EnrichedStatement) []string {
	var categories []string
	seen := make(map[string]bool)
	for _, stmt := range requirements {
		if !seen[stmt.Category] {
			seen[stmt.Category] = true
			categories = append(categories, stmt.Category)
		}
	}
	return categories
}
