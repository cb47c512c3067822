package publish

import "context"

// Hook observes the outcome of every publish run, including failed ones.
// Hook errors are logged by the Publisher and never change the result.
type Hook interface {
	AfterPublish(ctx context.Context, res *Result) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, res *Result) error

// AfterPublish calls f.
func (f HookFunc) AfterPublish(ctx context.Context, res *Result) error {
	return f(ctx, res)
}
