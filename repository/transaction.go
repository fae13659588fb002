/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tomoncle/dabas/database"
	"github.com/uptrace/bun"
)

// UnitOfWork is the body of a single transaction. It must not commit or
// roll back tx itself.
type UnitOfWork[R any] func(ctx context.Context, tx bun.Tx) (R, error)

type options struct {
	logger    database.Logger
	metrics   *TxMetrics
	txOptions *sql.TxOptions
}

// Option configures a TxRunner or a repository.
type Option func(*options)

// WithLogger replaces the default database logger.
func WithLogger(logger database.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records every unit of work in m.
func WithMetrics(m *TxMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTxOptions sets the isolation level and read-only flag used by BeginTx.
func WithTxOptions(txOptions *sql.TxOptions) Option {
	return func(o *options) { o.txOptions = txOptions }
}

func newOptions(opts []Option) *options {
	o := &options{logger: database.GetLogger()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TxRunner runs units of work in their own transaction: begin, run, then
// commit, or roll back on error or panic.
type TxRunner struct {
	db   *bun.DB
	opts *options
}

func NewTxRunner(db *bun.DB, opts ...Option) *TxRunner {
	return &TxRunner{db: db, opts: newOptions(opts)}
}

func (r *TxRunner) DB() *bun.DB { return r.db }

// RunInTx executes fn inside a new transaction labelled op. Failures to
// begin, run or commit are logged and returned as *TransactionError. A panic
// in fn rolls back and is re-raised.
func (r *TxRunner) RunInTx(ctx context.Context, op string, fn func(ctx context.Context, tx bun.Tx) error) error {
	txID := uuid.NewString()
	start := time.Now()
	if r.db == nil {
		return r.fail(op, txID, start, outcomeBeginFail, errors.New("database not initialized"))
	}

	tx, err := r.db.BeginTx(ctx, r.opts.txOptions)
	if err != nil {
		return r.fail(op, txID, start, outcomeBeginFail, fmt.Errorf("begin: %w", err))
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			r.opts.metrics.observe(op, outcomePanicked, time.Since(start))
			r.opts.logger.Error("Transaction panicked, rolled back", "operation", op, "tx_id", txID, "panic", p)
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.opts.logger.Warn("Transaction rollback failed", "operation", op, "tx_id", txID, "error", rbErr)
		}
		return r.fail(op, txID, start, outcomeRolledBack, err)
	}
	if err := tx.Commit(); err != nil {
		return r.fail(op, txID, start, outcomeCommitFail, fmt.Errorf("commit: %w", err))
	}
	committed = true

	r.opts.metrics.observe(op, outcomeCommitted, time.Since(start))
	r.opts.logger.Debug("Transaction committed", "operation", op, "tx_id", txID, "elapsed", time.Since(start))
	return nil
}

func (r *TxRunner) fail(op, txID string, start time.Time, outcome string, cause error) error {
	txErr := newTransactionError(op, txID, cause)
	r.opts.metrics.observe(op, outcome, time.Since(start))
	r.opts.logger.Error("Transaction failed",
		"operation", op,
		"tx_id", txID,
		"outcome", outcome,
		"kind", txErr.Kind.String(),
		"error", cause,
	)
	return txErr
}

// Execute runs work through runner and returns its result. On failure the
// zero R is returned with the *TransactionError.
func Execute[R any](ctx context.Context, runner *TxRunner, op string, work UnitOfWork[R]) (R, error) {
	var result R
	err := runner.RunInTx(ctx, op, func(ctx context.Context, tx bun.Tx) error {
		var err error
		result, err = work(ctx, tx)
		return err
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return result, nil
}
