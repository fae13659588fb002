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
	"maps"
	"slices"

	"github.com/tomoncle/dabas/database"
	"github.com/tomoncle/dabas/types"
	"github.com/uptrace/bun"
)

// Repository is the transaction-safe data access surface for entity type T.
// Every method runs in exactly one transaction of its own, and every column
// it is given is checked against the model before that transaction begins.
type Repository[T any] interface {
	// Insert persists one record.
	Insert(ctx context.Context, entity *T) error

	// Get returns the records matching query, which may be nil.
	Get(ctx context.Context, query *types.Query) (*types.Data[T], error)

	// Update loads the first record matching the equality filters (ordered by
	// primary key), applies fields to it and returns it. (nil, nil) means
	// nothing matched.
	Update(ctx context.Context, filters map[string]any, fields map[string]any) (*T, error)

	// BulkInsert inserts the non-nil records and returns how many were inserted.
	BulkInsert(ctx context.Context, entities []*T) (int, error)

	// BulkInsertMaps inserts one record per non-empty column mapping.
	BulkInsertMaps(ctx context.Context, mappings []map[string]any) (int, error)

	// BulkUpdate updates one row per mapping, located by the primary-key
	// values it carries, and returns the rows affected.
	BulkUpdate(ctx context.Context, mappings []map[string]any) (int64, error)

	// Paginate returns one page of matching records.
	Paginate(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Delete removes rows matching conditions, restricted to primaryKeys
	// (matched on the first primary-key column) when any are given.
	Delete(ctx context.Context, conditions []types.Condition, primaryKeys ...any) (int64, error)

	// DeleteAll removes every row of the table.
	DeleteAll(ctx context.Context) (int64, error)

	// Count returns how many rows match conditions.
	Count(ctx context.Context, conditions ...types.Condition) (int, error)

	// Model describes the table behind T.
	Model() *ModelClass

	// Runner exposes the transaction runner for custom units of work.
	Runner() *TxRunner
}

type baseRepositoryImpl[T any] struct {
	runner *TxRunner
	model  *ModelClass
}

// NewRepository returns a Repository for T backed by db. It fails when T
// cannot be mapped to a table.
func NewRepository[T any](db *bun.DB, opts ...Option) (Repository[T], error) {
	model, err := ModelOf[T](db)
	if err != nil {
		return nil, err
	}
	return &baseRepositoryImpl[T]{runner: NewTxRunner(db, opts...), model: model}, nil
}

func (r *baseRepositoryImpl[T]) Model() *ModelClass { return r.model }

func (r *baseRepositoryImpl[T]) Runner() *TxRunner { return r.runner }

func (r *baseRepositoryImpl[T]) logger() database.Logger {
	return r.runner.opts.logger
}

func (r *baseRepositoryImpl[T]) op(name string) string {
	return r.model.Table + "." + name
}

func (r *baseRepositoryImpl[T]) Insert(ctx context.Context, entity *T) error {
	if entity == nil {
		return preconditionf("insert into %s: nil record", r.model.Table)
	}
	return r.runner.RunInTx(ctx, r.op("insert"), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(entity).Exec(ctx)
		return err
	})
}

func (r *baseRepositoryImpl[T]) Get(ctx context.Context, query *types.Query) (*types.Data[T], error) {
	if query.GetLimit() < 0 {
		return nil, preconditionf("negative limit %d", query.GetLimit())
	}
	if err := r.model.validateConditions(query.GetConditions()); err != nil {
		return nil, err
	}
	if err := r.model.validateOrders(query.GetOrders()); err != nil {
		return nil, err
	}

	return Execute(ctx, r.runner, r.op("get"), func(ctx context.Context, tx bun.Tx) (*types.Data[T], error) {
		items := make([]*T, 0)
		q := tx.NewSelect().Model(&items)
		q = applyConditions(q, tx.Dialect(), query.GetConditions())
		q = applyOrders(q, query.GetOrders())
		if limit := query.GetLimit(); limit > 0 {
			q = q.Limit(limit)
		}
		if err := q.Scan(ctx); err != nil {
			return nil, err
		}
		return types.NewData(items), nil
	})
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, filters map[string]any, fields map[string]any) (*T, error) {
	if !r.model.HasPrimaryKey() {
		return nil, r.noPrimaryKey()
	}
	if err := r.model.checkColumns(slices.Collect(maps.Keys(filters))...); err != nil {
		return nil, err
	}
	columns := sortedKeys(fields)
	if err := r.model.checkColumns(columns...); err != nil {
		return nil, err
	}
	// assignment errors surface here rather than inside the transaction
	var probe T
	for _, col := range columns {
		if err := r.model.assign(&probe, col, fields[col]); err != nil {
			return nil, err
		}
	}

	return Execute(ctx, r.runner, r.op("update"), func(ctx context.Context, tx bun.Tx) (*T, error) {
		entity := new(T)
		q := tx.NewSelect().Model(entity)
		q = applyConditions(q, tx.Dialect(), equalityConditions(filters))
		q = applyOrders(q, r.model.primaryKeyOrder())
		if err := q.Limit(1).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}
		if len(columns) == 0 {
			return entity, nil
		}
		// fields may rewrite the key, so the row is located by the loaded one
		keys := r.model.primaryKeyValues(entity)
		for _, col := range columns {
			if err := r.model.assign(entity, col, fields[col]); err != nil {
				return nil, err
			}
		}
		upd := tx.NewUpdate().Model(entity).Column(columns...)
		for i, pk := range r.model.PrimaryKeys {
			upd = upd.Where("? = ?", bun.Ident(pk), keys[i])
		}
		res, err := upd.Exec(ctx)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("update %s: row %v vanished before write", r.model.Table, keys)
		}
		return entity, nil
	})
}

func (r *baseRepositoryImpl[T]) BulkInsert(ctx context.Context, entities []*T) (int, error) {
	items := make([]*T, 0, len(entities))
	for _, e := range entities {
		if e != nil {
			items = append(items, e)
		}
	}
	return r.insertBatch(ctx, items)
}

func (r *baseRepositoryImpl[T]) BulkInsertMaps(ctx context.Context, mappings []map[string]any) (int, error) {
	items := make([]*T, 0, len(mappings))
	for _, m := range mappings {
		if len(m) == 0 {
			continue
		}
		entity := new(T)
		for _, col := range sortedKeys(m) {
			if err := r.model.assign(entity, col, m[col]); err != nil {
				return 0, err
			}
		}
		items = append(items, entity)
	}
	return r.insertBatch(ctx, items)
}

func (r *baseRepositoryImpl[T]) insertBatch(ctx context.Context, items []*T) (int, error) {
	if len(items) == 0 {
		r.logger().Warn("Bulk insert skipped, no records given", "table", r.model.Table)
		return 0, nil
	}
	return Execute(ctx, r.runner, r.op("bulk_insert"), func(ctx context.Context, tx bun.Tx) (int, error) {
		if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
			return 0, err
		}
		return len(items), nil
	})
}

func (r *baseRepositoryImpl[T]) BulkUpdate(ctx context.Context, mappings []map[string]any) (int64, error) {
	if len(mappings) == 0 {
		return 0, preconditionf("bulk update of %s: no mappings given", r.model.Table)
	}
	if !r.model.HasPrimaryKey() {
		return 0, r.noPrimaryKey()
	}
	for i, m := range mappings {
		if err := r.model.checkColumns(sortedKeys(m)...); err != nil {
			return 0, err
		}
		for _, pk := range r.model.PrimaryKeys {
			if _, ok := m[pk]; !ok {
				return 0, preconditionf("bulk update of %s: mapping %d lacks primary key %s", r.model.Table, i, pk)
			}
		}
	}

	return Execute(ctx, r.runner, r.op("bulk_update"), func(ctx context.Context, tx bun.Tx) (int64, error) {
		var total int64
		for _, m := range mappings {
			q := tx.NewUpdate().Model((*T)(nil))
			set := 0
			for _, col := range sortedKeys(m) {
				if slices.Contains(r.model.PrimaryKeys, col) {
					continue
				}
				q = q.Set("? = ?", bun.Ident(col), m[col])
				set++
			}
			if set == 0 {
				continue
			}
			for _, pk := range r.model.PrimaryKeys {
				q = q.Where("? = ?", bun.Ident(pk), m[pk])
			}
			res, err := q.Exec(ctx)
			if err != nil {
				return 0, err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	})
}

func (r *baseRepositoryImpl[T]) Paginate(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	if !page.Valid() {
		if page == nil {
			return nil, preconditionf("nil page request")
		}
		return nil, preconditionf("invalid page %d or page size %d", page.GetPage(), page.GetPageSize())
	}
	if err := r.model.validateConditions(page.GetConditions()); err != nil {
		return nil, err
	}
	orders := page.GetOrders()
	if err := r.model.validateOrders(orders); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		orders = r.model.primaryKeyOrder()
		if len(orders) == 0 {
			r.logger().Warn("Paginating without a stable order, model has no primary key", "table", r.model.Table)
		}
	}

	return Execute(ctx, r.runner, r.op("paginate"), func(ctx context.Context, tx bun.Tx) (*types.Pagination[T], error) {
		pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
		q := tx.NewSelect().Model(&pagination.Items)
		q = applyConditions(q, tx.Dialect(), page.GetConditions())
		q = applyOrders(q, orders)
		if err := q.Offset(page.GetOffset()).Limit(page.GetPageSize()).Scan(ctx); err != nil {
			return nil, err
		}
		return pagination, nil
	})
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, conditions []types.Condition, primaryKeys ...any) (int64, error) {
	if err := r.model.validateConditions(conditions); err != nil {
		return 0, err
	}
	all := slices.Clone(conditions)
	// a lone empty slice means no key restriction
	if keys := types.In("", primaryKeys...); len(keys.Values) > 0 {
		pk, err := r.model.FirstPrimaryKey()
		if err != nil {
			return 0, err
		}
		keys.Column = pk
		all = append(all, keys)
	}
	return r.deleteWhere(ctx, r.op("delete"), all)
}

func (r *baseRepositoryImpl[T]) DeleteAll(ctx context.Context) (int64, error) {
	return r.deleteWhere(ctx, r.op("delete_all"), nil)
}

func (r *baseRepositoryImpl[T]) deleteWhere(ctx context.Context, op string, conditions []types.Condition) (int64, error) {
	return Execute(ctx, r.runner, op, func(ctx context.Context, tx bun.Tx) (int64, error) {
		q := tx.NewDelete().Model((*T)(nil))
		if len(conditions) == 0 {
			q = q.Where("1 = 1")
		}
		q = applyConditions(q, tx.Dialect(), conditions)
		res, err := q.Exec(ctx)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, conditions ...types.Condition) (int, error) {
	if err := r.model.validateConditions(conditions); err != nil {
		return 0, err
	}
	return Execute(ctx, r.runner, r.op("count"), func(ctx context.Context, tx bun.Tx) (int, error) {
		q := tx.NewSelect().Model((*T)(nil))
		q = applyConditions(q, tx.Dialect(), conditions)
		return q.Count(ctx)
	})
}

func (r *baseRepositoryImpl[T]) noPrimaryKey() error {
	_, err := r.model.FirstPrimaryKey()
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
