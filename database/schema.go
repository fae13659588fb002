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

package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateTables creates the table of every model with IF NOT EXISTS inside a
// single transaction. Models are created in the order given.
func CreateTables(ctx context.Context, db *bun.DB, models ...interface{}) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	if len(models) == 0 {
		return nil
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range models {
			if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				_, kind := IsSqlError(err)
				return fmt.Errorf("failed to create table for %T (%s): %w", model, kind, err)
			}
		}
		return nil
	})
}

// CreateAllTables creates every registered model's table and reports
// success. Failures are logged, not returned.
func CreateAllTables(ctx context.Context, db *bun.DB) bool {
	models := RegisteredModelInstances()
	if err := CreateTables(ctx, db, models...); err != nil {
		GetLogger().Error("Failed to create tables", "models", len(models), "error", err)
		return false
	}
	GetLogger().Debug("Tables created", "models", len(models))
	return true
}
