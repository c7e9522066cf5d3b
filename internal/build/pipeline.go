package build

import (
	"context"
	"fmt"
)

// Step is one named unit of work in a build pipeline.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline is an ordered list of named steps. It lets man-page
// generation slot in around a host build system's existing steps instead
// of wrapping them.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given initial steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Append adds a step at the end.
func (p *Pipeline) Append(step Step) {
	p.steps = append(p.steps, step)
}

// InsertBefore places step immediately before the named anchor. An
// unknown anchor puts the step first.
func (p *Pipeline) InsertBefore(anchor string, step Step) {
	idx := p.index(anchor)
	if idx < 0 {
		idx = 0
	}
	p.insert(idx, step)
}

// InsertAfter places step immediately after the named anchor. An unknown
// anchor appends the step.
func (p *Pipeline) InsertAfter(anchor string, step Step) {
	idx := p.index(anchor)
	if idx < 0 {
		p.Append(step)
		return
	}
	p.insert(idx+1, step)
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name
	}
	return names
}

// Run executes the steps in order, stopping at the first failure.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if step.Run == nil {
			continue
		}
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
	}
	return nil
}

func (p *Pipeline) index(name string) int {
	for i, step := range p.steps {
		if step.Name == name {
			return i
		}
	}
	return -1
}

func (p *Pipeline) insert(idx int, step Step) {
	p.steps = append(p.steps, Step{})
	copy(p.steps[idx+1:], p.steps[idx:])
	p.steps[idx] = step
}
