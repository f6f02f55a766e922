package provisioning

import (
	"context"
	"time"

	"github.com/imamik/appstack/internal/config"
)

// Provision validates stack, normalizes it and resolves it. Validation
// failures are returned before any composer is called.
func Provision(ctx context.Context, stack *config.Stack, composers Composers, opts ...Option) (*State, error) {
	o := newOptions(ctx, opts)
	observer := o.Observer.WithFields(map[string]string{"stack": stack.Name})

	if err := stack.Validate(); err != nil {
		observer.Event(Event{Type: EventValidationError, Message: err.Error()})
		return nil, err
	}
	for _, w := range stack.Warnings() {
		LogValidationWarning(observer, w.Field, w.Message)
	}

	return resolve(newContext(ctx, Normalize(stack), composers, o))
}

// Resolve runs every rule once in order over a fresh State. The first
// composer error stops the pass and is returned unchanged together with the
// partial state; nothing created before it is undone.
func Resolve(ctx context.Context, in *Input, composers Composers, opts ...Option) (*State, error) {
	return resolve(NewContext(ctx, in, composers, opts...))
}

func resolve(c *Context) (*State, error) {
	in := c.Input
	start := time.Now()
	LogStackStart(c.Observer, in.Name)

	for _, rule := range Rules() {
		if err := c.apply(rule); err != nil {
			LogStackFailed(c.Observer, in.Name, rule.Kind, err)
			return c.State, err
		}
	}

	LogStackComplete(c.Observer, in.Name, len(c.State.PresentKinds()), time.Since(start))
	return c.State, nil
}

func (c *Context) apply(rule Rule) error {
	ok, reason := rule.Precondition(c)
	if !ok {
		c.State.record(Decision{Kind: rule.Kind, Present: false, Reason: reason})
		c.Metrics.recordDecision(rule.Kind, false)
		LogResourceSkipped(c.Observer, rule.Kind, reason)
		return nil
	}

	LogResourceCreating(c.Observer, rule.Kind)
	start := time.Now()
	name, composed, err := rule.Compose(c)
	if composed {
		c.Metrics.observeCompose(rule.Kind, time.Since(start), err)
	}
	if err != nil {
		c.State.Failed = rule.Kind
		LogResourceFailed(c.Observer, rule.Kind, name, err)
		return err
	}

	c.State.record(Decision{Kind: rule.Kind, Name: name, Present: true, Reason: reason})
	c.Metrics.recordDecision(rule.Kind, true)
	if composed {
		LogResourceCreated(c.Observer, rule.Kind, name)
	} else {
		LogResourceExists(c.Observer, rule.Kind, name, reason)
	}
	return nil
}
