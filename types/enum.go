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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Operator is the comparison applied by a Condition to its column.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpIn
	OpLike
	OpILike
	OpIsNull
	OpIsNotNull
	OpBetween
	OpNotBetween
)

var _ BaseEnum = OpEq

type operatorInfo struct {
	name string
	sql  string
	desc string
	args int
}

// args is the number of operands the operator consumes; -1 means a set.
var operators = map[Operator]operatorInfo{
	OpEq:         {"eq", "=", "equals", 1},
	OpNe:         {"ne", "<>", "not equals", 1},
	OpIn:         {"in", "IN", "membership in set", -1},
	OpLike:       {"like", "LIKE", "case-sensitive pattern match", 1},
	OpILike:      {"ilike", "ILIKE", "case-insensitive pattern match", 1},
	OpIsNull:     {"is_null", "IS NULL", "is null", 0},
	OpIsNotNull:  {"is_not_null", "IS NOT NULL", "is not null", 0},
	OpBetween:    {"between", "BETWEEN", "inclusive range", 2},
	OpNotBetween: {"not_between", "NOT BETWEEN", "outside inclusive range", 2},
}

func (o Operator) IsValid() bool {
	_, ok := operators[o]
	return ok
}

func (o Operator) Number() int {
	if !o.IsValid() {
		return IllegalValue
	}
	return int(o)
}

// String returns the SQL keyword of the operator.
func (o Operator) String() string {
	if info, ok := operators[o]; ok {
		return info.sql
	}
	return IllegalName
}

func (o Operator) Desc() string {
	if info, ok := operators[o]; ok {
		return info.desc
	}
	return IllegalDesc
}

func (o Operator) Name() string {
	if info, ok := operators[o]; ok {
		return info.name
	}
	return IllegalName
}

// Arity returns how many operands the operator expects, -1 for a set.
func (o Operator) Arity() int {
	if info, ok := operators[o]; ok {
		return info.args
	}
	return IllegalValue
}
