package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/agentient/qualgate/internal/report"
	"github.com/agentient/qualgate/internal/scan"
)

// CoverageAdapter normalizes coverage reports from structurally different
// encodings: a per-file percentage summary (Jest/Vitest coverage-summary.json,
// coverage.py coverage.json) and a line-hit list (lcov.info). Missing or
// unparseable data is a tool failure, never "0% coverage".
type CoverageAdapter struct{}

// coverageSearchPaths are the conventional report locations, tried in order.
var coverageSearchPaths = []string{
	filepath.Join("coverage", "coverage-summary.json"),
	"coverage-summary.json",
	filepath.Join("coverage", "coverage.json"),
	"coverage.json",
	filepath.Join("coverage", "lcov.info"),
	"lcov.info",
}

// Name returns the tool identifier used in config and failure maps.
func (c *CoverageAdapter) Name() string { return "coverage" }

// Discover locates a coverage report under dir. pinned, when non-empty,
// overrides discovery. A missing report returns os.ErrNotExist.
func (c *CoverageAdapter) Discover(dir string, pinned string) (string, error) {
	if pinned != "" {
		path := pinned
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	for _, candidate := range coverageSearchPaths {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", os.ErrNotExist
}

// ParseFile reads and parses a coverage report, dispatching on its filename.
func (c *CoverageAdapter) ParseFile(path string) ([]report.CoverageReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, "coverage-summary.json"):
		return parseJestSummary(data)
	case strings.HasSuffix(path, ".info"):
		return parseLCOV(data)
	case strings.HasSuffix(path, ".json"):
		return parseCoveragePy(data)
	}
	return nil, fmt.Errorf("unrecognized coverage report format: %s", filepath.Base(path))
}

// jest/vitest coverage-summary.json: {"total": {...}, "<file>": {"lines":
// {"pct": n}, "statements": {...}, "branches": {...}, "functions": {...}}}
type jestMetrics struct {
	Lines      jestPct `json:"lines"`
	Statements jestPct `json:"statements"`
	Branches   jestPct `json:"branches"`
	Functions  jestPct `json:"functions"`
}

type jestPct struct {
	Pct float64 `json:"pct"`
}

func parseJestSummary(data []byte) ([]report.CoverageReport, error) {
	var raw map[string]jestMetrics
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("coverage summary JSON: %w", err)
	}

	var out []report.CoverageReport
	for file, m := range raw {
		if file == "total" {
			continue
		}
		out = append(out, report.CoverageReport{
			File:         file,
			Class:        classForPath(file, "frontend"),
			StatementPct: m.Statements.Pct,
			BranchPct:    m.Branches.Pct,
			FunctionPct:  m.Functions.Pct,
		})
	}
	sortCoverage(out)
	return out, nil
}

// coverage.py coverage.json: {"files": {"<file>": {"summary":
// {"percent_covered": n, ...}, "missing_lines": [..]}}, "totals": {...}}
type coveragePyReport struct {
	Files map[string]coveragePyFile `json:"files"`
}

type coveragePyFile struct {
	Summary struct {
		PercentCovered         float64 `json:"percent_covered"`
		PercentCoveredBranches float64 `json:"percent_covered_branches"`
	} `json:"summary"`
	MissingLines []int `json:"missing_lines"`
}

func parseCoveragePy(data []byte) ([]report.CoverageReport, error) {
	var raw coveragePyReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("coverage.py JSON: %w", err)
	}
	if raw.Files == nil {
		return nil, fmt.Errorf("coverage.py JSON: no files section")
	}

	var out []report.CoverageReport
	for file, f := range raw.Files {
		out = append(out, report.CoverageReport{
			File:         file,
			Class:        classForPath(file, "backend"),
			StatementPct: f.Summary.PercentCovered,
			BranchPct:    f.Summary.PercentCoveredBranches,
			Uncovered:    collapseLines(f.MissingLines),
		})
	}
	sortCoverage(out)
	return out, nil
}

// lcov.info: records per source file,
//
//	SF:<path>  DA:<line>,<hits>  LF/LH: lines found/hit
//	FNF/FNH: functions found/hit  BRF/BRH: branches found/hit  end_of_record
func parseLCOV(data []byte) ([]report.CoverageReport, error) {
	var out []report.CoverageReport

	var cur *report.CoverageReport
	var uncovered []int
	var lf, lh, fnf, fnh, brf, brh int

	flush := func() {
		if cur == nil {
			return
		}
		cur.StatementPct = pct(lh, lf)
		cur.FunctionPct = pct(fnh, fnf)
		cur.BranchPct = pct(brh, brf)
		cur.Uncovered = collapseLines(uncovered)
		out = append(out, *cur)
		cur = nil
		uncovered = nil
		lf, lh, fnf, fnh, brf, brh = 0, 0, 0, 0, 0, 0
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SF:"):
			flush()
			path := strings.TrimPrefix(line, "SF:")
			cur = &report.CoverageReport{File: path, Class: classForPath(path, "frontend")}
		case strings.HasPrefix(line, "DA:"):
			parts := strings.SplitN(strings.TrimPrefix(line, "DA:"), ",", 3)
			if len(parts) >= 2 {
				ln, err1 := strconv.Atoi(parts[0])
				hits, err2 := strconv.Atoi(parts[1])
				if err1 == nil && err2 == nil && hits == 0 {
					uncovered = append(uncovered, ln)
				}
			}
		case strings.HasPrefix(line, "LF:"):
			lf, _ = strconv.Atoi(strings.TrimPrefix(line, "LF:"))
		case strings.HasPrefix(line, "LH:"):
			lh, _ = strconv.Atoi(strings.TrimPrefix(line, "LH:"))
		case strings.HasPrefix(line, "FNF:"):
			fnf, _ = strconv.Atoi(strings.TrimPrefix(line, "FNF:"))
		case strings.HasPrefix(line, "FNH:"):
			fnh, _ = strconv.Atoi(strings.TrimPrefix(line, "FNH:"))
		case strings.HasPrefix(line, "BRF:"):
			brf, _ = strconv.Atoi(strings.TrimPrefix(line, "BRF:"))
		case strings.HasPrefix(line, "BRH:"):
			brh, _ = strconv.Atoi(strings.TrimPrefix(line, "BRH:"))
		case line == "end_of_record":
			flush()
		}
	}
	flush()

	if len(out) == 0 {
		return nil, fmt.Errorf("lcov: no SF records found")
	}
	sortCoverage(out)
	return out, nil
}

func pct(hit, found int) float64 {
	if found == 0 {
		// No instrumentable units means nothing was missed.
		return 100
	}
	return float64(hit) / float64(found) * 100
}

// collapseLines turns a sorted-or-not list of uncovered line numbers into
// contiguous inclusive ranges.
func collapseLines(lines []int) []report.LineRange {
	if len(lines) == 0 {
		return nil
	}
	sorted := append([]int(nil), lines...)
	sort.Ints(sorted)

	var out []report.LineRange
	start, end := sorted[0], sorted[0]
	for _, ln := range sorted[1:] {
		if ln == end || ln == end+1 {
			end = ln
			continue
		}
		out = append(out, report.LineRange{Start: start, End: end})
		start, end = ln, ln
	}
	out = append(out, report.LineRange{Start: start, End: end})
	return out
}

// classForPath maps a covered file onto a module class, defaulting to the
// report format's native class when the extension is unknown.
func classForPath(path string, fallback string) string {
	if lang := scan.DetectLanguage(path); lang != "" {
		return scan.ClassOf(lang)
	}
	return fallback
}

func sortCoverage(reports []report.CoverageReport) {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].File < reports[j].File
	})
}
