package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/stephen-devops/specsift/internal/model"
)

// RenderSeeds produces the design-seed document for the technical-design
// stage: Design statements with their patterns and rationale, Flows
// needing explicit design, and the Environment-specific Design subset
// repeated as mandated choices.
func RenderSeeds(enriched []model.EnrichedStatement, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Architectural Seeds & Design Guidance\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", now.Format("2006-01-02 15:04:05"))

	// Section 1: design patterns
	b.WriteString("## Design Patterns\n\n")
	designs := filterByType(enriched, model.TypeDesign)
	if len(designs) == 0 {
		b.WriteString("*No design patterns extracted*\n\n")
	}
	for _, stmt := range designs {
		fmt.Fprintf(&b, "### %s: %s\n", stmt.ID, stmt.Pattern)
		fmt.Fprintf(&b, "**Statement:** %s\n", stmt.Text)
		fmt.Fprintf(&b, "**Context:** %s\n", stmt.Context)
		fmt.Fprintf(&b, "**Rationale:** %s\n\n", stmt.Rationale)
	}

	// Section 2: complex flows
	flows := filterByType(enriched, model.TypeFlow)
	if len(flows) > 0 {
		b.WriteString("## Complex Flows Requiring Design\n\n")
		for _, stmt := range flows {
			fmt.Fprintf(&b, "### %s\n", stmt.ID)
			fmt.Fprintf(&b, "**Flow:** %s\n", stmt.Text)
			fmt.Fprintf(&b, "**Trigger:** %s\n", stmt.Trigger)
			fmt.Fprintf(&b, "**Outcome:** %s\n\n", stmt.Outcome)
		}
	}

	// Section 3: environment-specific mandates
	var mandates []model.EnrichedStatement
	for _, stmt := range designs {
		if stmt.Context == model.ContextEnvironment {
			mandates = append(mandates, stmt)
		}
	}
	if len(mandates) > 0 {
		b.WriteString("## Mandated Design Choices (Environment-Specific)\n\n")
		b.WriteString("*These are non-negotiable requirements specific to the environment:*\n\n")
		for _, stmt := range mandates {
			fmt.Fprintf(&b, "- **%s**: %s\n", stmt.ID, stmt.Text)
			fmt.Fprintf(&b, "  - *Reason*: %s\n", stmt.Rationale)
		}
		b.WriteString("\n")
	}

	// Section 4: open questions. Static for now; deriving these from
	// ambiguous classifications is future work.
	b.WriteString("## Open Questions\n\n")
	b.WriteString("*To be identified during architecture design phase:*\n\n")
	b.WriteString("- How to handle race conditions in concurrent workflows?\n")
	b.WriteString("- Cache strategy for reference data (currencies, purpose codes)?\n")
	b.WriteString("- Error granularity: store all errors or limit per file?\n\n")

	return b.String()
}
