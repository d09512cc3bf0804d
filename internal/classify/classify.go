// Package classify assigns engine severities and categories to raw tool
// findings. Tool-native severity labels are inconsistent across ecosystems,
// so they are only a fallback signal here; the gating severity always comes
// from this package's tables.
package classify

import (
	"strings"

	"github.com/agentient/qualgate/internal/adapter"
	"github.com/agentient/qualgate/internal/report"
)

type class struct {
	Severity report.Severity
	Category report.Category
}

// securityOverrides are rules encoding known high-risk patterns: hardcoded
// secrets, unsafe deserialization, dynamic code execution, and injection
// sinks. They classify as CRITICAL/SECURITY regardless of what the producing
// tool calls them.
var securityOverrides = map[string]map[string]bool{
	"ruff": {
		"S102": true, // exec-builtin
		"S105": true, // hardcoded-password-string
		"S106": true, // hardcoded-password-func-arg
		"S107": true, // hardcoded-password-default
		"S301": true, // suspicious-pickle-usage
		"S302": true, // suspicious-marshal-usage
		"S307": true, // suspicious-eval-usage
		"S608": true, // hardcoded-sql-expression
	},
	"bandit": {
		"B102": true,
		"B105": true,
		"B106": true,
		"B107": true,
		"B301": true,
		"B302": true,
		"B307": true,
		"B608": true,
	},
	"eslint": {
		"no-eval":         true,
		"no-implied-eval": true,
		"no-new-func":     true,
		"security/detect-eval-with-expression": true,
		"security/detect-object-injection":     true,
		"security/detect-child-process":        true,
	},
}

// exactRules maps (tool, rule) to a classification.
var exactRules = map[string]map[string]class{
	"ruff": {
		"F821": {report.SeverityHigh, report.CategoryCorrectness},   // undefined name
		"F811": {report.SeverityMedium, report.CategoryCorrectness}, // redefinition
		"E722": {report.SeverityMedium, report.CategoryCorrectness}, // bare except
	},
	"ruff-format": {
		"format": {report.SeverityLow, report.CategoryStyle},
	},
	"eslint": {
		"eqeqeq":         {report.SeverityMedium, report.CategoryCorrectness},
		"no-undef":       {report.SeverityHigh, report.CategoryCorrectness},
		"no-unused-vars": {report.SeverityLow, report.CategoryStyle},
		"complexity":     {report.SeverityMedium, report.CategoryComplexity},
		"syntax-error":   {report.SeverityHigh, report.CategoryCorrectness},
	},
}

// prefixRules maps (tool, rule prefix) to a classification. Longest prefix
// wins. These cover whole rule families the exact table doesn't enumerate.
var prefixRules = map[string][]struct {
	Prefix string
	Class  class
}{
	"ruff": {
		{"S", class{report.SeverityHigh, report.CategorySecurity}},
		{"E9", class{report.SeverityHigh, report.CategoryCorrectness}},
		{"F", class{report.SeverityMedium, report.CategoryCorrectness}},
		{"B", class{report.SeverityMedium, report.CategoryCorrectness}},
		{"C9", class{report.SeverityMedium, report.CategoryComplexity}},
		{"ANN", class{report.SeverityLow, report.CategoryTypeSafety}},
		{"D", class{report.SeverityInfo, report.CategoryDocumentation}},
		{"E", class{report.SeverityLow, report.CategoryStyle}},
		{"W", class{report.SeverityLow, report.CategoryStyle}},
		{"N", class{report.SeverityLow, report.CategoryStyle}},
		{"I", class{report.SeverityLow, report.CategoryStyle}},
		{"UP", class{report.SeverityLow, report.CategoryStyle}},
	},
	"bandit": {
		{"B", class{report.SeverityHigh, report.CategorySecurity}},
	},
	"tsc": {
		{"TS", class{report.SeverityHigh, report.CategoryTypeSafety}},
	},
}

// rawSeverityFallback maps (tool, lowercased native severity) to a
// classification when neither rule table recognizes the rule.
var rawSeverityFallback = map[string]map[string]class{
	"mypy": {
		"error":   {report.SeverityHigh, report.CategoryTypeSafety},
		"warning": {report.SeverityMedium, report.CategoryTypeSafety},
	},
	"tsc": {
		"error":   {report.SeverityHigh, report.CategoryTypeSafety},
		"warning": {report.SeverityMedium, report.CategoryTypeSafety},
	},
	"eslint": {
		"error":   {report.SeverityMedium, report.CategoryCorrectness},
		"warning": {report.SeverityLow, report.CategoryStyle},
	},
	"bandit": {
		"high":   {report.SeverityHigh, report.CategorySecurity},
		"medium": {report.SeverityMedium, report.CategorySecurity},
		"low":    {report.SeverityLow, report.CategorySecurity},
	},
}

// defaultClass is the terminal fallback: a violation is never dropped for
// being unrecognized.
var defaultClass = class{report.SeverityMedium, report.CategoryCorrectness}

// Classify returns the severity and category for a finding. It is total:
// every input triple yields a defined pair.
func Classify(tool, rule, rawSeverity string) (report.Severity, report.Category) {
	if securityOverrides[tool][rule] {
		return report.SeverityCritical, report.CategorySecurity
	}

	if c, ok := exactRules[tool][rule]; ok {
		return c.Severity, c.Category
	}

	if prefixes, ok := prefixRules[tool]; ok {
		best := -1
		var found class
		for _, p := range prefixes {
			if strings.HasPrefix(rule, p.Prefix) && len(p.Prefix) > best {
				best = len(p.Prefix)
				found = p.Class
			}
		}
		if best >= 0 {
			return found.Severity, found.Category
		}
	}

	if c, ok := rawSeverityFallback[tool][strings.ToLower(rawSeverity)]; ok {
		return c.Severity, c.Category
	}

	return defaultClass.Severity, defaultClass.Category
}

// Apply converts raw adapter findings into classified violations.
func Apply(tool string, findings []adapter.Finding) []report.Violation {
	out := make([]report.Violation, 0, len(findings))
	for _, f := range findings {
		sev, cat := Classify(tool, f.Rule, f.RawSeverity)
		out = append(out, report.Violation{
			Tool:     tool,
			File:     f.File,
			Line:     f.Line,
			Column:   f.Column,
			Rule:     f.Rule,
			Message:  f.Message,
			Severity: sev,
			Category: cat,
		})
	}
	return out
}
