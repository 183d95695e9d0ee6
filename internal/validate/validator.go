// Package validate runs corpus-level quality checks over the enriched
// statement set. Checks produce warnings only and never halt the
// pipeline; they are signals of mis-classification risk, not proofs.
package validate

import (
	"fmt"

	"github.com/stephen-devops/specsift/internal/model"
)

// Expected band for the Environment-specific share of the corpus
const (
	minEnvironmentPercent = 15.0
	maxEnvironmentPercent = 60.0
	minRequirementPercent = 30.0
)

// Warning is one non-fatal quality finding
type Warning struct {
	Check   string `json:"check"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Check, w.Message)
}

// Check runs all corpus-level checks and returns the warnings
func Check(enriched []model.EnrichedStatement) []Warning {
	var warnings []Warning

	// Check 1: every statement carries both taxonomy labels
	for _, stmt := range enriched {
		if stmt.Type == "" || stmt.Context == "" {
			warnings = append(warnings, Warning{
				Check:   "classification-complete",
				Message: fmt.Sprintf("%s missing type or context", stmt.ID),
			})
		}
	}

	total := float64(len(enriched))

	// Check 2: Environment-specific share within the expected band.
	// An empty corpus has a 0% share and fails this check like any
	// other out-of-band corpus.
	envCount := 0
	for _, stmt := range enriched {
		if stmt.Context == model.ContextEnvironment {
			envCount++
		}
	}
	envPercent := 0.0
	if total > 0 {
		envPercent = float64(envCount) / total * 100
	}
	if envPercent < minEnvironmentPercent || envPercent > maxEnvironmentPercent {
		warnings = append(warnings, Warning{
			Check: "environment-share",
			Message: fmt.Sprintf("Environment-specific share is %.1f%% (expected %.0f-%.0f%%)",
				envPercent, minEnvironmentPercent, maxEnvironmentPercent),
		})
	}

	// Check 3: at least one Intent statement
	intentCount := 0
	for _, stmt := range enriched {
		if stmt.Type == model.TypeIntent {
			intentCount++
		}
	}
	if intentCount == 0 {
		warnings = append(warnings, Warning{
			Check:   "intent-present",
			Message: "No Intent statements found - expected at least 3-5",
		})
	}

	// Check 4: Requirements form a significant share
	reqCount := 0
	for _, stmt := range enriched {
		if stmt.Type == model.TypeRequirement {
			reqCount++
		}
	}
	reqPercent := 0.0
	if total > 0 {
		reqPercent = float64(reqCount) / total * 100
	}
	if reqPercent < minRequirementPercent {
		warnings = append(warnings, Warning{
			Check: "requirement-share",
			Message: fmt.Sprintf("Requirements only %.1f%% of corpus - expected 40-60%%",
				reqPercent),
		})
	}

	return warnings
}
