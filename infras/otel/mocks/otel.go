package mocks

import (
	"context"
	"sync"

	"toolhub/infras/otel"
)

// Otel is a no-op tracer that remembers which spans recorded an error.
type Otel struct {
	mu     sync.Mutex
	errors map[string][]error
}

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	return ctx, &scopeImpl{name: spanName, parent: o}
}

func (o *Otel) Shutdown(_ context.Context) error {
	return nil
}

// Errors returns the errors traced under spanName.
func (o *Otel) Errors(spanName string) []error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]error(nil), o.errors[spanName]...)
}

func (o *Otel) record(spanName string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.errors == nil {
		o.errors = map[string][]error{}
	}

	o.errors[spanName] = append(o.errors[spanName], err)
}

func NewOtel() *Otel {
	return &Otel{}
}
