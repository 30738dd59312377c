package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// DefaultStepTimeout bounds a single step when the cascade is built without one.
const DefaultStepTimeout = 8 * time.Second

// Cascade tries its steps in order until one yields a record.
type Cascade struct {
	steps       []Step
	stepTimeout time.Duration
}

// NewCascade creates a Cascade. A non-positive stepTimeout selects DefaultStepTimeout.
func NewCascade(stepTimeout time.Duration, steps ...Step) *Cascade {
	if stepTimeout <= 0 {
		stepTimeout = DefaultStepTimeout
	}
	return &Cascade{
		steps:       steps,
		stepTimeout: stepTimeout,
	}
}

// Resolve never fails: when every step fails it returns the demo record with
// an advisory describing the most specific failure seen.
func (c *Cascade) Resolve(ctx context.Context, q Query) Result {
	reqID := uuid.NewString()
	log.Printf("DEBUG: cascade %s: resolving %q with %d steps", reqID, q.String(), len(c.steps))

	var failures []error
	for _, step := range c.steps {
		rec, err := c.runStep(ctx, step, q)
		if err == nil {
			log.Printf("INFO: cascade %s: %s answered for %q", reqID, step.Name(), q.String())
			return Result{
				Query:     q,
				Record:    rec,
				RequestID: reqID,
			}
		}
		log.Printf("DEBUG: cascade %s: step %s failed for %q: %v", reqID, step.Name(), q.String(), err)
		failures = append(failures, err)
	}

	failure := errors.Join(failures...)
	log.Printf("INFO: cascade %s: all steps failed for %q; using demo data", reqID, q.String())
	return Result{
		Query:     q,
		Record:    DemoRecord(),
		Demo:      true,
		Advisory:  advisory(q, failure),
		RequestID: reqID,
	}
}

// runStep isolates one step: it gets its own deadline and a panic counts as a
// generic provider failure.
func (c *Cascade) runStep(ctx context.Context, step Step, q Query) (rec Record, err error) {
	stepCtx, cancel := context.WithTimeout(ctx, c.timeoutFor(step))
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			rec = Record{}
			err = fmt.Errorf("%w: %s panicked: %v", ErrProviderGeneric, step.Name(), r)
		}
	}()

	rec, err = step.Fetch(stepCtx, q)
	if err != nil {
		return Record{}, err
	}
	if _, ok := ParseCondition(string(rec.Condition)); !ok {
		rec.Condition = Classify(rec.Description)
	}
	if rec.Source == "" {
		rec.Source = step.Name()
	}
	return rec, nil
}

func (c *Cascade) timeoutFor(step Step) time.Duration {
	if m, ok := step.(MultiAttempt); ok && m.Attempts() > 1 {
		return c.stepTimeout * time.Duration(m.Attempts())
	}
	return c.stepTimeout
}
