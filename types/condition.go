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

import (
	"fmt"
	"reflect"
)

// Condition is a predicate over a single named column. A list of conditions
// is always combined with AND; an empty list matches every row.
type Condition struct {
	Column   string
	Operator Operator
	Values   []interface{}
}

// Eq matches rows whose column equals value. A nil value matches NULL.
func Eq(column string, value interface{}) Condition {
	if value == nil {
		return IsNull(column)
	}
	return Condition{Column: column, Operator: OpEq, Values: []interface{}{value}}
}

// Ne matches rows whose column differs from value. A nil value matches NOT NULL.
func Ne(column string, value interface{}) Condition {
	if value == nil {
		return IsNotNull(column)
	}
	return Condition{Column: column, Operator: OpNe, Values: []interface{}{value}}
}

// In matches rows whose column is one of values. values may also be a single
// slice, which is expanded. An empty set matches nothing.
func In(column string, values ...interface{}) Condition {
	if len(values) == 1 {
		if expanded, ok := expandSlice(values[0]); ok {
			values = expanded
		}
	}
	return Condition{Column: column, Operator: OpIn, Values: values}
}

// Like is a case-sensitive pattern match where the engine supports it.
func Like(column string, pattern string) Condition {
	return Condition{Column: column, Operator: OpLike, Values: []interface{}{pattern}}
}

// ILike is a case-insensitive pattern match.
func ILike(column string, pattern string) Condition {
	return Condition{Column: column, Operator: OpILike, Values: []interface{}{pattern}}
}

func IsNull(column string) Condition {
	return Condition{Column: column, Operator: OpIsNull}
}

func IsNotNull(column string) Condition {
	return Condition{Column: column, Operator: OpIsNotNull}
}

// Between matches lo <= column <= hi.
func Between(column string, lo, hi interface{}) Condition {
	return Condition{Column: column, Operator: OpBetween, Values: []interface{}{lo, hi}}
}

func NotBetween(column string, lo, hi interface{}) Condition {
	return Condition{Column: column, Operator: OpNotBetween, Values: []interface{}{lo, hi}}
}

// Validate checks that the condition names a column and carries the number
// of operands its operator expects.
func (c Condition) Validate() error {
	if c.Column == "" {
		return fmt.Errorf("condition column cannot be empty")
	}
	if !c.Operator.IsValid() {
		return fmt.Errorf("invalid operator %d on column %s", int(c.Operator), c.Column)
	}
	if arity := c.Operator.Arity(); arity >= 0 && len(c.Values) != arity {
		return fmt.Errorf("operator %s on column %s expects %d operand(s), got %d",
			c.Operator.Name(), c.Column, arity, len(c.Values))
	}
	return nil
}

func (c Condition) String() string {
	switch c.Operator.Arity() {
	case 0:
		return fmt.Sprintf("%s %s", c.Column, c.Operator)
	case 2:
		return fmt.Sprintf("%s %s %v AND %v", c.Column, c.Operator, c.Values[0], c.Values[1])
	case -1:
		return fmt.Sprintf("%s %s %v", c.Column, c.Operator, c.Values)
	default:
		if len(c.Values) == 0 {
			return fmt.Sprintf("%s %s ?", c.Column, c.Operator)
		}
		return fmt.Sprintf("%s %s %v", c.Column, c.Operator, c.Values[0])
	}
}

// Order is an ordering directive; ascending unless Descending is set.
type Order struct {
	Column     string
	Descending bool
}

func Asc(column string) Order { return Order{Column: column} }

func Desc(column string) Order { return Order{Column: column, Descending: true} }

func (o Order) String() string {
	if o.Descending {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

func expandSlice(v interface{}) ([]interface{}, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// []byte is a scalar operand, not a set
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
