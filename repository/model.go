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
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

const modelCacheSize = 512

type modelKey struct {
	dialect dialect.Name
	typ     reflect.Type
}

var modelCache, _ = lru.New[modelKey, *ModelClass](modelCacheSize)

// ModelClass describes the table behind a Go struct: its name, columns and
// primary key, in declaration order. It is immutable once built.
type ModelClass struct {
	Type        reflect.Type
	Table       string
	Columns     []string
	PrimaryKeys []string

	fields map[string]*schema.Field
}

// ModelOf returns the ModelClass of T for db, building and caching it on first use.
func ModelOf[T any](db *bun.DB) (*ModelClass, error) {
	return modelOf(db, reflect.TypeOf((*T)(nil)).Elem())
}

func modelOf(db *bun.DB, typ reflect.Type) (*ModelClass, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: database not initialized", ErrInvalidModel)
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidModel, typ)
	}
	key := modelKey{dialect: db.Dialect().Name(), typ: typ}
	if mc, ok := modelCache.Get(key); ok {
		return mc, nil
	}

	table := db.Table(typ)
	mc := &ModelClass{
		Type:        typ,
		Table:       table.Name,
		Columns:     make([]string, 0, len(table.Fields)),
		PrimaryKeys: make([]string, 0, len(table.PKs)),
		fields:      make(map[string]*schema.Field, len(table.Fields)),
	}
	for _, f := range table.Fields {
		mc.Columns = append(mc.Columns, f.Name)
		mc.fields[f.Name] = f
	}
	for _, f := range table.PKs {
		mc.PrimaryKeys = append(mc.PrimaryKeys, f.Name)
	}
	if len(mc.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s maps no columns", ErrInvalidModel, typ)
	}
	modelCache.Add(key, mc)
	return mc, nil
}

func (m *ModelClass) HasColumn(column string) bool {
	_, ok := m.fields[column]
	return ok
}

func (m *ModelClass) HasPrimaryKey() bool { return len(m.PrimaryKeys) > 0 }

// FirstPrimaryKey returns the first declared primary-key column.
func (m *ModelClass) FirstPrimaryKey() (string, error) {
	if !m.HasPrimaryKey() {
		return "", fmt.Errorf("%w: %s", ErrNoPrimaryKey, m.Table)
	}
	return m.PrimaryKeys[0], nil
}

func (m *ModelClass) checkColumns(columns ...string) error {
	for _, c := range columns {
		if !m.HasColumn(c) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, m.Table, c)
		}
	}
	return nil
}

// primaryKeyValues reads the primary-key fields of the struct pointed to by
// ptr, in PrimaryKeys order.
func (m *ModelClass) primaryKeyValues(ptr interface{}) []interface{} {
	elem := reflect.ValueOf(ptr).Elem()
	out := make([]interface{}, len(m.PrimaryKeys))
	for i, pk := range m.PrimaryKeys {
		out[i] = m.fields[pk].Value(elem).Interface()
	}
	return out
}

// assign stores value into the column's field of the struct pointed to by ptr.
// Numeric values convert between numeric kinds; nil resets the field.
func (m *ModelClass) assign(ptr interface{}, column string, value interface{}) error {
	f, ok := m.fields[column]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, m.Table, column)
	}
	dst := f.Value(reflect.ValueOf(ptr).Elem())
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	src := reflect.ValueOf(value)
	if dst.Kind() == reflect.Ptr && src.Type() != dst.Type() {
		elem := reflect.New(dst.Type().Elem())
		if err := convertInto(elem.Elem(), src); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrPrecondition, m.Table, column, err)
		}
		dst.Set(elem)
		return nil
	}
	if err := convertInto(dst, src); err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrPrecondition, m.Table, column, err)
	}
	return nil
}

func convertInto(dst, src reflect.Value) error {
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
	case isNumeric(src.Kind()) && isNumeric(dst.Kind()),
		src.Kind() == reflect.String && dst.Kind() == reflect.String:
		dst.Set(src.Convert(dst.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
