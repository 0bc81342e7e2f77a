package waitfor

import "fmt"

// Outcome is the state of a single condition evaluation.
type Outcome int

const (
	// Pending means the condition is not satisfied yet; poll again.
	Pending Outcome = iota
	// Ready means the condition is satisfied and carries a value.
	Ready
	// Fatal means the wait must stop with an error.
	Fatal
)

// String returns a string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Evaluation is the result of evaluating a condition once.
type Evaluation[T any] struct {
	Outcome Outcome
	Value   T
	// Err is the failure for Fatal, or the transient error that made the
	// evaluation Pending (nil if it simply was not satisfied).
	Err error
}

// NotYet returns a Pending evaluation.
func NotYet[T any]() Evaluation[T] {
	return Evaluation[T]{Outcome: Pending}
}

// Retry returns a Pending evaluation caused by a transient error.
func Retry[T any](err error) Evaluation[T] {
	return Evaluation[T]{Outcome: Pending, Err: err}
}

// Done returns a Ready evaluation carrying v.
func Done[T any](v T) Evaluation[T] {
	return Evaluation[T]{Outcome: Ready, Value: v}
}

// Fail returns a Fatal evaluation.
func Fail[T any](err error) Evaluation[T] {
	return Evaluation[T]{Outcome: Fatal, Err: err}
}

// classify turns a session error into Pending or Fatal.
func classify[T any](err error) Evaluation[T] {
	if IsTransient(err) {
		return Retry[T](err)
	}
	return Fail[T](err)
}

// Condition is a predicate over a Session. Conditions are built fresh for
// each wait and may carry state between polls of that wait.
type Condition[T any] struct {
	name     string
	eval     func(Session) Evaluation[T]
	describe func() string
}

// NewCondition builds a condition. name is a short stable identifier used
// in logs and metrics; describe renders what is awaited and is called
// again after every poll, so it may include the last observed values.
func NewCondition[T any](name string, eval func(Session) Evaluation[T], describe func() string) Condition[T] {
	if describe == nil {
		describe = func() string { return name }
	}
	return Condition[T]{name: name, eval: eval, describe: describe}
}

// FromFunc adapts a plain predicate. ok=false means pending; errors are
// classified with IsTransient.
func FromFunc[T any](name string, fn func(Session) (T, bool, error)) Condition[T] {
	return NewCondition(name, func(s Session) Evaluation[T] {
		v, ok, err := fn(s)
		if err != nil {
			return classify[T](err)
		}
		if !ok {
			return NotYet[T]()
		}
		return Done(v)
	}, nil)
}

// failed returns a condition whose every evaluation is fatal. It carries
// construction-time errors into the wait.
func failed[T any](name string, err error) Condition[T] {
	return NewCondition(name, func(Session) Evaluation[T] {
		return Fail[T](err)
	}, func() string {
		return fmt.Sprintf("%s (construction failed: %v)", name, err)
	})
}

// Name returns the short identifier of the condition.
func (c Condition[T]) Name() string {
	return c.name
}

// Evaluate runs the condition once.
func (c Condition[T]) Evaluate(s Session) Evaluation[T] {
	return c.eval(s)
}

// String describes what the condition awaits.
func (c Condition[T]) String() string {
	return c.describe()
}
