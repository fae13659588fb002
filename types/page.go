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

package types

// Query describes a read: AND-combined conditions, an optional ordering and
// an optional limit applied after filtering and ordering.
type Query struct {
	conditions []Condition
	orders     []Order
	limit      int
}

// NewQuery creates a query over the given conditions.
func NewQuery(conditions ...Condition) *Query {
	return &Query{conditions: conditions}
}

// Where appends conditions to the query.
func (q *Query) Where(conditions ...Condition) *Query {
	q.conditions = append(q.conditions, conditions...)
	return q
}

// OrderBy sets the ordering column; descending reverses it.
func (q *Query) OrderBy(column string, descending bool) *Query {
	q.orders = append(q.orders, Order{Column: column, Descending: descending})
	return q
}

// Limit caps the number of rows; zero means no limit.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) GetConditions() []Condition {
	if q == nil {
		return nil
	}
	return q.conditions
}

func (q *Query) GetOrders() []Order {
	if q == nil {
		return nil
	}
	return q.orders
}

func (q *Query) GetLimit() int {
	if q == nil {
		return 0
	}
	return q.limit
}

// PageRequest describes one page window, optional conditions, and ordering.
type PageRequest struct {
	page       int
	pageSize   int
	conditions []Condition
	orders     []Order
}

func (p *PageRequest) GetPageSize() int { return p.pageSize }

func (p *PageRequest) GetPage() int { return p.page }

// GetOffset returns (page-1)*pageSize.
func (p *PageRequest) GetOffset() int {
	return (p.page - 1) * p.pageSize
}

func (p *PageRequest) GetConditions() []Condition { return p.conditions }

func (p *PageRequest) GetOrders() []Order { return p.orders }

// Valid reports whether page >= 1 and pageSize > 0.
func (p *PageRequest) Valid() bool {
	return p != nil && p.page >= 1 && p.pageSize > 0
}

// NewPageRequest constructs a PageRequest with conditions and order settings.
func NewPageRequest(page int, pageSize int, conditions []Condition, orders []Order) *PageRequest {
	return &PageRequest{page, pageSize, conditions, orders}
}

// NewPageRequestWithConditions constructs a PageRequest with conditions only.
func NewPageRequestWithConditions(page int, pageSize int, conditions ...Condition) *PageRequest {
	return NewPageRequest(page, pageSize, conditions, nil)
}

// NewPageRequestWithOrders constructs a PageRequest with ordering only.
func NewPageRequestWithOrders(page int, pageSize int, orders ...Order) *PageRequest {
	return NewPageRequest(page, pageSize, nil, orders)
}

// NewDefaultPageRequest constructs a PageRequest with no conditions or ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, nil, nil)
}

// Pagination holds one window of records. It carries no total; use
// Repository.Count for that.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, make([]*T, 0)}
}
