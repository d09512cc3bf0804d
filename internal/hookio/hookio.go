// Package hookio is the boundary between the engine and the host that
// invokes it as a lifecycle hook: it parses the hook event from stdin,
// routes the reports to the channels the host reads, and owns the single
// translation from a Decision to a process exit code.
package hookio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/agentient/qualgate/internal/policy"
	"github.com/agentient/qualgate/internal/report"
	"github.com/agentient/qualgate/internal/reporter"
)

// Exit codes. 2 is deliberately outside the conventional 0/1 range so a
// caller can tell "policy block" apart from "the engine itself failed".
const (
	ExitPass     = 0 // PASS and WARN: non-blocking
	ExitInternal = 1 // engine failure, not a policy decision
	ExitBlock    = 2 // policy BLOCK
	ExitConfig   = 3 // invalid policy config, nothing was run
)

// ExitCode maps a decision outcome to the process exit code.
func ExitCode(o policy.Outcome) int {
	if o == policy.Block {
		return ExitBlock
	}
	return ExitPass
}

// Event is the hook payload the host writes to stdin on a post-edit hook.
type Event struct {
	ToolInput struct {
		FilePath string `json:"file_path"`
	} `json:"tool_input"`
}

// ReadEvent parses a hook event and returns the edited file path. An empty
// path with a nil error means the event carried nothing scannable.
func ReadEvent(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading hook event: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return "", fmt.Errorf("parsing hook event: %w", err)
	}
	return ev.ToolInput.FilePath, nil
}

// Emit writes the narrative report to the channel the host reads for the
// given outcome: stderr on BLOCK (so the host surfaces it as feedback),
// stdout otherwise.
func Emit(stdout, stderr io.Writer, r *report.QualityReport, d policy.Decision) {
	w := stdout
	if d.Outcome == policy.Block {
		w = stderr
	}
	reporter.Narrative(w, r, d)
}
