package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Runner executes a function inside one SQL transaction, carrying the tx in
// context so stores built on Resolve participate transparently.
type Runner struct {
	db *sql.DB
}

func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = t.Rollback()
	}()

	if err := fn(WithTx(ctx, t)); err != nil {
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Passthrough runs fn directly. Used with memory stores, where the
// coordinator's per-key lock already provides the atomicity.
type Passthrough struct{}

func NewPassthrough() Passthrough { return Passthrough{} }

func (Passthrough) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
