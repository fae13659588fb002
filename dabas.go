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

package dabas

import (
	"context"
	"sync"

	"github.com/tomoncle/dabas/database"
	"github.com/tomoncle/dabas/repository"
	"github.com/tomoncle/dabas/types"
)

// Service is a Repository bound lazily to the global database set up by
// database.InitDB.
type Service[T any] interface {
	repository.Repository[T]
}

type baseServiceImpl[T any] struct {
	opts []repository.Option
	mu   sync.Mutex
	repo repository.Repository[T]
}

// NewService returns a Service for T. The repository is built on first use,
// so the service may be declared before database.InitDB runs.
func NewService[T any](opts ...repository.Option) Service[T] {
	return &baseServiceImpl[T]{opts: opts}
}

func (s *baseServiceImpl[T]) baseRepo() (repository.Repository[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		return s.repo, nil
	}
	// failures are not cached, a later call retries once InitDB has run
	repo, err := repository.NewRepository[T](database.GetDB(), s.opts...)
	if err != nil {
		return nil, err
	}
	s.repo = repo
	return repo, nil
}

func (s *baseServiceImpl[T]) Insert(ctx context.Context, entity *T) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Insert(ctx, entity)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, query *types.Query) (*types.Data[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, query)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, filters map[string]any, fields map[string]any) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Update(ctx, filters, fields)
}

func (s *baseServiceImpl[T]) BulkInsert(ctx context.Context, entities []*T) (int, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.BulkInsert(ctx, entities)
}

func (s *baseServiceImpl[T]) BulkInsertMaps(ctx context.Context, mappings []map[string]any) (int, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.BulkInsertMaps(ctx, mappings)
}

func (s *baseServiceImpl[T]) BulkUpdate(ctx context.Context, mappings []map[string]any) (int64, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.BulkUpdate(ctx, mappings)
}

func (s *baseServiceImpl[T]) Paginate(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Paginate(ctx, page)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, conditions []types.Condition, primaryKeys ...any) (int64, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.Delete(ctx, conditions, primaryKeys...)
}

func (s *baseServiceImpl[T]) DeleteAll(ctx context.Context) (int64, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.DeleteAll(ctx)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, conditions ...types.Condition) (int, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx, conditions...)
}

// Model returns nil until the global database is available.
func (s *baseServiceImpl[T]) Model() *repository.ModelClass {
	repo, err := s.baseRepo()
	if err != nil {
		return nil
	}
	return repo.Model()
}

func (s *baseServiceImpl[T]) Runner() *repository.TxRunner {
	repo, err := s.baseRepo()
	if err != nil {
		return nil
	}
	return repo.Runner()
}
