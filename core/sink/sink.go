// Package sink defines where a generated dataset goes once produced. Sink
// implementations live in infra/sink and register themselves by type name.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/bikecast/core/factory"
	"github.com/kilianp07/bikecast/core/generator"
	"github.com/kilianp07/bikecast/core/model"
)

// Batch is the result of one generation run.
type Batch struct {
	RunID       string
	Params      generator.Params
	GeneratedAt time.Time
	Rows        []model.Observation
}

// Sink persists or forwards a Batch.
type Sink interface {
	WriteBatch(ctx context.Context, b Batch) error
	Close() error
}

// NopSink discards every batch.
type NopSink struct{}

func (NopSink) WriteBatch(context.Context, Batch) error { return nil }
func (NopSink) Close() error                            { return nil }

var registry = factory.NewRegistry[Sink]()

// Register adds a sink factory under name.
func Register(name string, f factory.Factory[Sink]) error {
	return registry.Register(name, f)
}

// Create builds the sink described by cfg.
func Create(cfg factory.ModuleConfig) (Sink, error) {
	s, err := registry.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("sink %s: %w (known: %v)", cfg.Type, err, registry.Names())
	}
	return s, nil
}

// Names lists the registered sink types.
func Names() []string { return registry.Names() }

// Error reports which sink failed.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("sink %s: %v", e.Name, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Entry pairs a sink with the name used in logs and metrics.
type Entry struct {
	Name string
	Sink Sink
}

// MultiSink fans a batch out to several sinks in order.
type MultiSink struct {
	Entries []Entry
}

// NewMultiSink creates a MultiSink with the provided entries.
func NewMultiSink(entries ...Entry) *MultiSink {
	return &MultiSink{Entries: entries}
}

// WriteBatch forwards the batch to all sinks, returning the first error
// encountered wrapped in an *Error.
func (m *MultiSink) WriteBatch(ctx context.Context, b Batch) error {
	for _, e := range m.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Sink.WriteBatch(ctx, b); err != nil {
			return &Error{Name: e.Name, Err: err}
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, e := range m.Entries {
		if err := e.Sink.Close(); err != nil {
			errs = append(errs, &Error{Name: e.Name, Err: err})
		}
	}
	return errors.Join(errs...)
}
