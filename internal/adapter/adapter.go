// Package adapter wraps the external analysis tools. Each adapter owns all
// knowledge of one tool's invocation and output grammar and normalizes its
// findings into the shared shape. Adapters are stateless and safe to run
// concurrently; severity and category are deliberately left for the
// classifier, so severity policy stays centralized.
package adapter

import (
	"time"

	"github.com/agentient/qualgate/internal/scan"
)

// Finding is one raw, unclassified result from a tool. RawSeverity carries
// the tool's native label (if any) for the classifier's fallback lookup; it
// is never surfaced to policy or reports directly.
type Finding struct {
	File        string
	Line        int
	Column      int
	Rule        string
	Message     string
	RawSeverity string
}

// Adapter is the contract every tool wrapper implements.
type Adapter interface {
	// Name is the stable tool identifier used in config, failures, and reports.
	Name() string

	// Languages lists the languages this tool applies to.
	Languages() []scan.Language

	// Command returns the binary and argv for a batch invocation over files.
	Command(files []string) (name string, args []string)

	// Parse converts raw tool output into findings. A non-nil error means
	// the output could not be interpreted; the caller records a tool
	// failure rather than treating it as zero findings.
	Parse(stdout string, stderr string, exitCode int) ([]Finding, error)

	// DefaultTimeout is used when no per-tool timeout is configured.
	DefaultTimeout() time.Duration
}

// Registry holds the known adapters in registration order. Selection is by
// static name lookup; there is no dynamic dispatch.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry returns a registry pre-loaded with all built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(&RuffAdapter{})
	r.Register(&RuffFormatAdapter{})
	r.Register(&MypyAdapter{})
	r.Register(&BanditAdapter{})
	r.Register(&ESLintAdapter{})
	r.Register(&TscAdapter{})
	return r
}

// Register adds an adapter. Later registrations with the same name replace
// earlier ones.
func (r *Registry) Register(a Adapter) {
	if r.adapters == nil {
		r.adapters = make(map[string]Adapter)
	}
	if _, exists := r.adapters[a.Name()]; !exists {
		r.order = append(r.order, a.Name())
	}
	r.adapters[a.Name()] = a
}

// Get returns the adapter with the given name, or nil.
func (r *Registry) Get(name string) Adapter {
	return r.adapters[name]
}

// All returns adapters in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}

// ForLanguages returns adapters applicable to any of the given languages,
// in registration order.
func (r *Registry) ForLanguages(langs map[scan.Language]bool) []Adapter {
	var out []Adapter
	for _, a := range r.All() {
		for _, l := range a.Languages() {
			if langs[l] {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// FilterFiles returns the paths from files that match the adapter's languages.
func FilterFiles(a Adapter, files []scan.File) []string {
	applies := make(map[scan.Language]bool)
	for _, l := range a.Languages() {
		applies[l] = true
	}
	var out []string
	for _, f := range files {
		if applies[f.Language] {
			out = append(out, f.Path)
		}
	}
	return out
}
