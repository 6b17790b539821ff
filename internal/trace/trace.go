// Package trace replays scripted allocation sequences against a pool.
//
// A trace is a YAML document naming the pool geometry and a list of steps:
//
//	pool_size: 64
//	block_size: 16
//	steps:
//	  - {op: alloc, name: a, size: 10, want_offset: 0}
//	  - {op: resize, name: a, size: 40}
//	  - {op: free, name: a}
//	  - {op: alloc, size: 100, want_error: out_of_space}
//
// Each step may bind its resulting pointer to a name that later steps refer
// to, and may state the offset or error it expects.
package trace

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/blockarena"
)

// Step operations.
const (
	OpAlloc  = "alloc"
	OpCalloc = "calloc"
	OpResize = "resize"
	OpFree   = "free"
	OpReset  = "reset"
	OpCheck  = "check"
)

// ErrInvalidTrace is returned for traces that cannot be replayed.
var ErrInvalidTrace = errors.New("trace: invalid trace")

//go:embed demo.yaml
var demoYAML []byte

// Trace is a parsed allocation trace.
type Trace struct {
	PoolSize       int    `yaml:"pool_size"`
	BlockSize      int    `yaml:"block_size"`
	OccupancyIndex bool   `yaml:"occupancy_index"`
	Steps          []Step `yaml:"steps"`
}

// Step is one pool operation.
type Step struct {
	Op    string `yaml:"op"`
	Name  string `yaml:"name,omitempty"`
	Size  int    `yaml:"size,omitempty"`
	Count int    `yaml:"count,omitempty"`

	// WantOffset, when set, is the pointer the step must return.
	WantOffset *int `yaml:"want_offset,omitempty"`
	// WantError is the error kind the step must fail with (see ErrorKind).
	// Empty means the step must succeed.
	WantError string `yaml:"want_error,omitempty"`
}

// Parse decodes and validates a trace. Unknown fields are rejected.
func Parse(r io.Reader) (*Trace, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Trace
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTrace, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads and parses the trace file at path.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Demo returns the built-in four-block walkthrough.
func Demo() *Trace {
	t, err := Parse(bytes.NewReader(demoYAML))
	if err != nil {
		panic(fmt.Sprintf("trace: embedded demo is invalid: %v", err))
	}
	return t
}

// Validate checks every step before anything is replayed.
func (t *Trace) Validate() error {
	if len(t.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidTrace)
	}
	for i, s := range t.Steps {
		switch s.Op {
		case OpAlloc, OpCalloc, OpResize, OpReset, OpCheck:
		case OpFree:
			if s.Name == "" {
				return fmt.Errorf("%w: step %d: free needs a name", ErrInvalidTrace, i)
			}
		default:
			return fmt.Errorf("%w: step %d: unknown op %q", ErrInvalidTrace, i, s.Op)
		}
		if s.WantError != "" {
			if _, ok := errorKinds[s.WantError]; !ok {
				return fmt.Errorf("%w: step %d: unknown error kind %q", ErrInvalidTrace, i, s.WantError)
			}
		}
	}
	return nil
}

// NewPool builds a pool with the trace's geometry.
func (t *Trace) NewPool(opts ...blockarena.Option) (*blockarena.Pool, error) {
	if t.OccupancyIndex {
		opts = append(opts, blockarena.WithOccupancyIndex())
	}
	return blockarena.NewPool(t.PoolSize, t.BlockSize, opts...)
}

var errorKinds = map[string]error{
	"out_of_space":    blockarena.ErrOutOfSpace,
	"invalid_pointer": blockarena.ErrInvalidPointer,
	"invalid_size":    blockarena.ErrInvalidSize,
	"corrupt":         blockarena.ErrCorrupt,
}

// ErrorKind returns the trace name of a pool error, or "" if err is nil, or
// "other" for errors the trace format has no name for.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for kind, target := range errorKinds {
		if errors.Is(err, target) {
			return kind
		}
	}
	return "other"
}
