package resolution

import (
	"fmt"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/graph"
)

// Pipeline runs an ordered list of steps once, front to back, then the quirk stage.
//
// A Pipeline is immutable after construction. Run may be called concurrently; every run
// owns its own SettingsMap.
type Pipeline struct {
	steps    []Step
	quirks   []Quirk
	declared []capability.ParameterID
}

// NewPipeline validates that parameters are unique and that every step is placed after
// the parameters it reads. Quirks must target declared parameters.
func NewPipeline(steps []Step, quirks ...Quirk) (*Pipeline, error) {
	nodes := make([]graph.Node, 0, len(steps))
	declared := make([]capability.ParameterID, 0, len(steps))
	for i, s := range steps {
		if s == nil {
			return nil, fmt.Errorf("%w: step %d is nil", ErrInvalidPipeline, i)
		}
		deps := s.DependsOn()
		keys := make([]string, 0, len(deps))
		for _, d := range deps {
			keys = append(keys, string(d))
		}
		nodes = append(nodes, graph.Node{Key: string(s.ParameterID()), DependsOn: keys})
		declared = append(declared, s.ParameterID())
	}

	g, err := graph.New(nodes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
	}
	if err := g.ValidateOrder(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
	}

	for i, q := range quirks {
		if q == nil || q.Name() == "" {
			return nil, fmt.Errorf("%w: quirk %d has no name", ErrInvalidQuirk, i)
		}
		if !g.Has(string(q.ParameterID())) {
			return nil, fmt.Errorf("%w: %q targets undeclared parameter %q", ErrInvalidQuirk, q.Name(), q.ParameterID())
		}
	}

	return &Pipeline{
		steps:    append([]Step(nil), steps...),
		quirks:   append([]Quirk(nil), quirks...),
		declared: declared,
	}, nil
}

// MustPipeline is NewPipeline for statically known step tables.
func MustPipeline(steps []Step, quirks ...Quirk) *Pipeline {
	p, err := NewPipeline(steps, quirks...)
	if err != nil {
		panic(err)
	}
	return p
}

// Declared returns the parameters in step order.
func (p *Pipeline) Declared() []capability.ParameterID {
	return append([]capability.ParameterID(nil), p.declared...)
}

// Quirks returns the names of the configured quirks in application order.
func (p *Pipeline) Quirks() []string {
	out := make([]string, 0, len(p.quirks))
	for _, q := range p.quirks {
		out = append(out, q.Name())
	}
	return out
}

// Run resolves every declared parameter against catalog. The returned map is complete and
// is never modified afterwards.
func (p *Pipeline) Run(catalog *capability.Catalog) *SettingsMap {
	m := newSettingsMap(len(p.steps))
	for _, s := range p.steps {
		m.put(runStep(s, m, catalog))
	}
	for _, q := range p.quirks {
		current, _ := m.Get(q.ParameterID())
		next, ok := applyQuirk(q, current, m, catalog)
		if !ok {
			continue
		}
		m.put(next)
	}
	return m
}

func runStep(s Step, prior *SettingsMap, catalog *capability.Catalog) (out Setting) {
	id := s.ParameterID()
	defer func() {
		if r := recover(); r != nil {
			out = Anomalous(id, fmt.Sprintf("step failed: %v", r))
		}
	}()
	out = s.Resolve(prior, catalog)
	out.Parameter = id
	return out
}

func applyQuirk(q Quirk, current Setting, settled *SettingsMap, catalog *capability.Catalog) (out Setting, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = current, false
		}
	}()
	out, ok = q.Override(current, settled, catalog)
	if !ok {
		return current, false
	}
	out.Parameter = current.Parameter
	out.Quirk = q.Name()
	out.Rationale = "quirk " + q.Name() + ": " + out.Rationale
	return out, true
}
