package reporter

import "github.com/agentient/qualgate/internal/report"

// ruleFixes holds remediation suggestions for specific high-signal rules.
// Keyed by rule code across tools; the handful of collisions (bandit and
// ruff's bandit-derived codes) intentionally share a suggestion.
var ruleFixes = map[string]string{
	"S105": "remove the hardcoded credential and load it from a secret store or environment configuration",
	"S106": "remove the hardcoded credential and load it from a secret store or environment configuration",
	"S107": "remove the hardcoded credential and load it from a secret store or environment configuration",
	"B105": "remove the hardcoded credential and load it from a secret store or environment configuration",
	"B106": "remove the hardcoded credential and load it from a secret store or environment configuration",
	"B107": "remove the hardcoded credential and load it from a secret store or environment configuration",
	"S301": "replace pickle with a safe serialization format such as JSON",
	"B301": "replace pickle with a safe serialization format such as JSON",
	"S307": "replace eval with ast.literal_eval or an explicit dispatch table",
	"B307": "replace eval with ast.literal_eval or an explicit dispatch table",
	"S608": "use parameterized queries instead of string-built SQL",
	"B608": "use parameterized queries instead of string-built SQL",
	"no-eval":     "replace eval with explicit property access or a dispatch table",
	"no-new-func": "replace the Function constructor with a statically defined function",
	"format":      "run ruff format on the file",
}

// categoryFixes are the fallback suggestions when no rule-specific
// remediation applies.
var categoryFixes = map[report.Category]string{
	report.CategorySecurity:      "treat this as a security defect: remove the unsafe pattern rather than suppressing the rule",
	report.CategoryTypeSafety:    "add or correct the type annotations so the checker can verify this call",
	report.CategoryStyle:         "run the tool's auto-fix or formatter to resolve this",
	report.CategoryComplexity:    "extract smaller functions to bring this unit under the complexity limit",
	report.CategoryDocumentation: "add a docstring describing the public contract",
}

// SuggestFix returns a remediation suggestion for a violation, or "" when
// no template applies.
func SuggestFix(v report.Violation) string {
	if fix, ok := ruleFixes[v.Rule]; ok {
		return fix
	}
	return categoryFixes[v.Category]
}
