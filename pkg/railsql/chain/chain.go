// Package chain runs a sequence of database steps inside one transaction,
// stopping at the first failure or fault and settling the transaction once.
//
// A chain is built from steps that each return a result and an error. A
// business failure or an infrastructure fault halts the chain; the steps
// after it never run. Finish commits on success and rolls back otherwise,
// returning the first failure or fault as the outcome of the whole chain.
//
//	ch := chain.Begin(ctx, db)
//	defer ch.Close()
//
//	reserved := chain.Then(ch, reserveStock)
//	charged := chain.Then(reserved, chargeCustomer)
//
//	return charged.Finish()
package chain

import (
	"context"
	"database/sql"
	"errors"

	pkgerrors "github.com/pkg/errors"

	railsql "github.com/sllt/railsql/pkg/railsql/datasource/sql"
	"github.com/sllt/railsql/pkg/railsql/result"
)

var errChainFinished = errors.New("chain already finished")

// state is shared by every Chain value derived from one Begin. The first
// failure or fault recorded here halts all later steps.
type state struct {
	ctx  context.Context
	tx   *railsql.Tx
	fail *result.Failure
	err  error
	done bool
}

// advance reports whether the next step may run, recording the finished
// sentinel or a context fault when it may not.
func (s *state) advance() bool {
	if s.done {
		s.err = errChainFinished
		return false
	}

	if s.fail != nil || s.err != nil {
		return false
	}

	if err := s.ctx.Err(); err != nil {
		s.err = err
		return false
	}

	return true
}

// Chain carries the value produced by the last successful step. All Chain
// values derived from one Begin share a transaction and halt together.
type Chain[T any] struct {
	st  *state
	val T
}

// Begin opens a transaction and returns the root of a chain. A failed begin
// is carried inside the chain, so steps skip and Finish reports it; callers
// only ever check the outcome once.
func Begin(ctx context.Context, db *railsql.DB) *Chain[result.Unit] {
	return BeginTx(ctx, db, nil)
}

// BeginTx is Begin with explicit transaction options.
func BeginTx(ctx context.Context, db *railsql.DB, opts *sql.TxOptions) *Chain[result.Unit] {
	st := &state{ctx: ctx}

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		st.err = pkgerrors.Wrap(err, "begin transaction")
	} else {
		st.tx = tx
	}

	return &Chain[result.Unit]{st: st}
}

// Then runs step with the value of the previous step and carries its result
// forward. It is a free function because the output type changes along the
// chain. A halted chain skips the step.
func Then[A, B any](c *Chain[A], step func(ctx context.Context, tx *railsql.Tx, in A) (result.Result[B], error)) *Chain[B] {
	next := &Chain[B]{st: c.st}

	if !c.st.advance() {
		return next
	}

	res, err := step(c.st.ctx, c.st.tx, c.val)
	if err != nil {
		c.st.err = err
		return next
	}

	if res.Failed() {
		c.st.fail = res.Failure()
		return next
	}

	next.val = res.Value()

	return next
}

// Map transforms the carried value without touching the database. A halted
// chain skips the transform.
func Map[A, B any](c *Chain[A], fn func(A) B) *Chain[B] {
	next := &Chain[B]{st: c.st}

	if !c.st.advance() {
		return next
	}

	next.val = fn(c.val)

	return next
}

// Do runs a step for its effect only, keeping the carried value. Use it for
// writes whose outcome matters but whose value does not.
func (c *Chain[T]) Do(step func(ctx context.Context, tx *railsql.Tx, in T) (result.Result[result.Unit], error)) *Chain[T] {
	if !c.st.advance() {
		return c
	}

	res, err := step(c.st.ctx, c.st.tx, c.val)
	if err != nil {
		c.st.err = err
		return c
	}

	if res.Failed() {
		c.st.fail = res.Failure()
	}

	return c
}

// Ensure halts the chain with fail when pred rejects the carried value.
func (c *Chain[T]) Ensure(pred func(T) bool, fail *result.Failure) *Chain[T] {
	if !c.st.advance() {
		return c
	}

	if !pred(c.val) {
		c.st.fail = fail
	}

	return c
}

// Finish settles the transaction and reports the chain's outcome: commit and
// Ok on success, rollback and the recorded failure on a business failure,
// rollback and the recorded error on a fault. Calling Finish twice is an
// error.
func (c *Chain[T]) Finish() (result.Result[T], error) {
	if c.st.done {
		return result.Result[T]{}, errChainFinished
	}

	c.st.done = true

	if c.st.err == nil && c.st.fail == nil {
		if err := c.st.ctx.Err(); err != nil {
			c.st.err = err
		}
	}

	if c.st.err != nil {
		// The original fault outranks any rollback fault.
		_ = c.rollback()

		return result.Result[T]{}, c.st.err
	}

	if c.st.fail != nil {
		if err := c.rollback(); err != nil {
			return result.Result[T]{}, err
		}

		return result.Fail[T](c.st.fail), nil
	}

	if err := c.st.tx.Commit(); err != nil {
		return result.Result[T]{}, pkgerrors.Wrap(err, "commit transaction")
	}

	return result.Ok(c.val), nil
}

// Close rolls the transaction back when Finish never ran, so a deferred
// Close makes early returns safe. After Finish it does nothing.
func (c *Chain[T]) Close() {
	if c.st.done {
		return
	}

	c.st.done = true

	_ = c.rollback()
}

func (c *Chain[T]) rollback() error {
	if c.st.tx == nil {
		return nil
	}

	if err := c.st.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return pkgerrors.Wrap(err, "rollback transaction")
	}

	return nil
}
