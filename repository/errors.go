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
	"errors"
	"fmt"

	"github.com/tomoncle/dabas/database"
)

var (
	// ErrTransaction matches every *TransactionError.
	ErrTransaction = errors.New("transaction failed")
	// ErrPrecondition reports invalid arguments detected before any transaction begins.
	ErrPrecondition = errors.New("precondition failed")
	// ErrUnknownColumn is a precondition failure naming a column the model does not have.
	ErrUnknownColumn = fmt.Errorf("%w: unknown column", ErrPrecondition)
	// ErrNoPrimaryKey reports an operation that needs a primary key on a model without one.
	ErrNoPrimaryKey = errors.New("model has no primary key")
	// ErrInvalidModel reports a type Bun cannot map to a table.
	ErrInvalidModel = errors.New("invalid model")
)

// TransactionError is returned when a unit of work could not be committed.
// Kind classifies Cause when it comes from the storage engine.
type TransactionError struct {
	Op    string
	TxID  string
	Kind  database.SQLError
	Cause error
}

func newTransactionError(op, txID string, cause error) *TransactionError {
	_, kind := database.IsSqlError(cause)
	return &TransactionError{Op: op, TxID: txID, Kind: kind, Cause: cause}
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %s [tx=%s kind=%s]: %v", ErrTransaction, e.Op, e.TxID, e.Kind, e.Cause)
}

func (e *TransactionError) Unwrap() error { return e.Cause }

func (e *TransactionError) Is(target error) bool { return target == ErrTransaction }

func preconditionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
