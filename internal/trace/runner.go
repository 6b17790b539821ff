package trace

import (
	"fmt"
	"log/slog"

	"github.com/pavanmanishd/blockarena"
)

// Result records the outcome of one replayed step.
type Result struct {
	Index int
	Step  Step
	Ptr   blockarena.Ptr
	Err   error

	// Mismatch describes how the outcome differs from the step's
	// expectations; empty when it matched.
	Mismatch string
}

// Report is the outcome of a replay.
type Report struct {
	Results    []Result
	Mismatches int
}

// OK reports whether every step met its expectations.
func (r *Report) OK() bool {
	return r.Mismatches == 0
}

// Run replays t against p. Names bind to the pointer returned by the step
// that last produced them; a name freed by Free or Resize(name, 0) stays
// bound to its stale pointer, so replaying a double free is possible.
// Run returns an error only for a free of a name that was never bound.
func Run(p *blockarena.Pool, t *Trace, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	names := map[string]blockarena.Ptr{}
	report := &Report{Results: make([]Result, 0, len(t.Steps))}

	for i, s := range t.Steps {
		res := Result{Index: i, Step: s, Ptr: blockarena.Nil}

		switch s.Op {
		case OpAlloc:
			res.Ptr, res.Err = p.Alloc(s.Size)
		case OpCalloc:
			res.Ptr, res.Err = p.AllocZeroed(s.Count, s.Size)
		case OpResize:
			// Unbound names resize Nil, which allocates.
			ptr := blockarena.Nil
			if bound, ok := names[s.Name]; ok {
				ptr = bound
			}
			res.Ptr, res.Err = p.Resize(ptr, s.Size)
		case OpFree:
			ptr, ok := names[s.Name]
			if !ok {
				return report, fmt.Errorf("%w: step %d: free of unbound name %q", ErrInvalidTrace, i, s.Name)
			}
			p.Free(ptr)
			res.Ptr = ptr
		case OpReset:
			p.Reset()
		case OpCheck:
			res.Err = p.Check()
		}

		if res.Err == nil && s.Name != "" && res.Ptr != blockarena.Nil {
			names[s.Name] = res.Ptr
		}

		res.Mismatch = mismatch(s, res)
		if res.Mismatch != "" {
			report.Mismatches++
			logger.Warn("step mismatch", "step", i, "op", s.Op, "name", s.Name, "mismatch", res.Mismatch)
		} else {
			logger.Debug("step", "step", i, "op", s.Op, "name", s.Name, "ptr", int(res.Ptr), "error", ErrorKind(res.Err))
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func mismatch(s Step, res Result) string {
	got := ErrorKind(res.Err)
	if got != s.WantError {
		if s.WantError == "" {
			return fmt.Sprintf("unexpected error: %v", res.Err)
		}
		if got == "" {
			return fmt.Sprintf("want error %s, got success", s.WantError)
		}
		return fmt.Sprintf("want error %s, got %v", s.WantError, res.Err)
	}
	if s.WantOffset != nil && res.Err == nil && int(res.Ptr) != *s.WantOffset {
		return fmt.Sprintf("want offset %d, got %d", *s.WantOffset, res.Ptr)
	}
	return ""
}
