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
	"errors"

	"github.com/tomoncle/dabas/types"
)

// FailSoftRepository wraps a Repository and turns transaction failures into
// benign results: false, empty Data, nil, 0 or an empty page. The failure is
// already logged by the runner. Precondition and model errors are still
// returned.
type FailSoftRepository[T any] struct {
	repo Repository[T]
}

func NewFailSoftRepository[T any](repo Repository[T]) *FailSoftRepository[T] {
	return &FailSoftRepository[T]{repo: repo}
}

// Strict returns the wrapped repository.
func (f *FailSoftRepository[T]) Strict() Repository[T] { return f.repo }

// soften drops err when it is a transaction failure.
func soften(err error) error {
	var txErr *TransactionError
	if errors.As(err, &txErr) {
		return nil
	}
	return err
}

// Insert reports whether the record was persisted.
func (f *FailSoftRepository[T]) Insert(ctx context.Context, entity *T) (bool, error) {
	if err := f.repo.Insert(ctx, entity); err != nil {
		return false, soften(err)
	}
	return true, nil
}

func (f *FailSoftRepository[T]) Get(ctx context.Context, query *types.Query) (*types.Data[T], error) {
	data, err := f.repo.Get(ctx, query)
	if err != nil {
		if err = soften(err); err != nil {
			return nil, err
		}
		return types.NewData[T](nil), nil
	}
	return data, nil
}

func (f *FailSoftRepository[T]) Update(ctx context.Context, filters map[string]any, fields map[string]any) (*T, error) {
	entity, err := f.repo.Update(ctx, filters, fields)
	if err != nil {
		return nil, soften(err)
	}
	return entity, nil
}

func (f *FailSoftRepository[T]) BulkInsert(ctx context.Context, entities []*T) (int, error) {
	n, err := f.repo.BulkInsert(ctx, entities)
	if err != nil {
		return 0, soften(err)
	}
	return n, nil
}

func (f *FailSoftRepository[T]) BulkInsertMaps(ctx context.Context, mappings []map[string]any) (int, error) {
	n, err := f.repo.BulkInsertMaps(ctx, mappings)
	if err != nil {
		return 0, soften(err)
	}
	return n, nil
}

func (f *FailSoftRepository[T]) BulkUpdate(ctx context.Context, mappings []map[string]any) (int64, error) {
	n, err := f.repo.BulkUpdate(ctx, mappings)
	if err != nil {
		return 0, soften(err)
	}
	return n, nil
}

func (f *FailSoftRepository[T]) Paginate(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	p, err := f.repo.Paginate(ctx, page)
	if err != nil {
		if err = soften(err); err != nil {
			return nil, err
		}
		return types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize()), nil
	}
	return p, nil
}

func (f *FailSoftRepository[T]) Delete(ctx context.Context, conditions []types.Condition, primaryKeys ...any) (int64, error) {
	n, err := f.repo.Delete(ctx, conditions, primaryKeys...)
	if err != nil {
		return 0, soften(err)
	}
	return n, nil
}

func (f *FailSoftRepository[T]) DeleteAll(ctx context.Context) (int64, error) {
	n, err := f.repo.DeleteAll(ctx)
	if err != nil {
		return 0, soften(err)
	}
	return n, nil
}

func (f *FailSoftRepository[T]) Count(ctx context.Context, conditions ...types.Condition) (int, error) {
	n, err := f.repo.Count(ctx, conditions...)
	if err != nil {
		return 0, soften(err)
	}
	return n, nil
}
