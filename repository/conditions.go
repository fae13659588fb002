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
	"fmt"

	"github.com/tomoncle/dabas/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

// whereQuery is satisfied by *bun.SelectQuery, *bun.UpdateQuery and *bun.DeleteQuery.
type whereQuery[Q any] interface {
	Where(query string, args ...interface{}) Q
}

// validateConditions checks every condition's shape and column before a
// transaction is opened.
func (m *ModelClass) validateConditions(conditions []types.Condition) error {
	for _, c := range conditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrPrecondition, err)
		}
		if err := m.checkColumns(c.Column); err != nil {
			return err
		}
	}
	return nil
}

func (m *ModelClass) validateOrders(orders []types.Order) error {
	for _, o := range orders {
		if err := m.checkColumns(o.Column); err != nil {
			return err
		}
	}
	return nil
}

// applyConditions AND-combines conditions onto q. No conditions leaves q
// unfiltered.
func applyConditions[Q whereQuery[Q]](q Q, d schema.Dialect, conditions []types.Condition) Q {
	for _, c := range conditions {
		query, args := renderCondition(d, c)
		q = q.Where(query, args...)
	}
	return q
}

func renderCondition(d schema.Dialect, c types.Condition) (string, []interface{}) {
	col := bun.Ident(c.Column)
	switch c.Operator {
	case types.OpEq:
		return "? = ?", []interface{}{col, c.Values[0]}
	case types.OpNe:
		return "? <> ?", []interface{}{col, c.Values[0]}
	case types.OpIn:
		if len(c.Values) == 0 {
			return "1 = 0", nil
		}
		return "? IN (?)", []interface{}{col, bun.In(c.Values)}
	case types.OpLike:
		return "? LIKE ?", []interface{}{col, c.Values[0]}
	case types.OpILike:
		if d.Name() == dialect.PG {
			return "? ILIKE ?", []interface{}{col, c.Values[0]}
		}
		return "LOWER(?) LIKE LOWER(?)", []interface{}{col, c.Values[0]}
	case types.OpIsNull:
		return "? IS NULL", []interface{}{col}
	case types.OpIsNotNull:
		return "? IS NOT NULL", []interface{}{col}
	case types.OpBetween:
		return "? BETWEEN ? AND ?", []interface{}{col, c.Values[0], c.Values[1]}
	case types.OpNotBetween:
		return "? NOT BETWEEN ? AND ?", []interface{}{col, c.Values[0], c.Values[1]}
	}
	// unreachable after validateConditions
	return "1 = 0", nil
}

func applyOrders(q *bun.SelectQuery, orders []types.Order) *bun.SelectQuery {
	for _, o := range orders {
		if o.Descending {
			q = q.OrderExpr("? DESC", bun.Ident(o.Column))
		} else {
			q = q.OrderExpr("? ASC", bun.Ident(o.Column))
		}
	}
	return q
}

// primaryKeyOrder orders by every primary-key column ascending.
func (m *ModelClass) primaryKeyOrder() []types.Order {
	orders := make([]types.Order, len(m.PrimaryKeys))
	for i, pk := range m.PrimaryKeys {
		orders[i] = types.Asc(pk)
	}
	return orders
}

// equalityConditions turns a filter map into Eq conditions, sorted by column
// so the generated SQL is stable.
func equalityConditions(filters map[string]interface{}) []types.Condition {
	conditions := make([]types.Condition, 0, len(filters))
	for _, col := range sortedKeys(filters) {
		conditions = append(conditions, types.Eq(col, filters[col]))
	}
	return conditions
}
