package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to a list of items.
type Filter[T any] interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, items []T) ([]T, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName[T any](steps []Filter[T], name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the remaining
// items together with one Step per enabled filter.
func Run[T any](ctx context.Context, logger *zap.Logger, steps []Filter[T], items []T) ([]T, []Step, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	results := make([]Step, 0, len(steps))
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, items)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
		info.Name = step.Name()

		logger.Info("filter step",
			zap.String("name", info.Name),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		items = next
		results = append(results, info)
	}

	return items, results, nil
}

// Describe returns status entries for the provided filters.
func Describe[T any](steps []Filter[T]) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// Find returns the step result with the given name.
func Find(steps []Step, name string) (Step, bool) {
	for _, step := range steps {
		if step.Name == name {
			return step, true
		}
	}
	return Step{}, false
}

// toggle carries the enabled state shared by all filters.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func keep[T any](items []T, pred func(T) bool) ([]T, Step) {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			kept = append(kept, item)
		}
	}
	return kept, Step{Initial: len(items), Dropped: len(items) - len(kept), Left: len(kept)}
}
