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
	"encoding/json"
)

// Data wraps the ordered records returned by a read. It holds no
// transactional state; the records are detached once the read commits.
type Data[T any] struct {
	items []*T
}

// NewData wraps items; a nil slice becomes an empty container.
func NewData[T any](items []*T) *Data[T] {
	if items == nil {
		items = make([]*T, 0)
	}
	return &Data[T]{items: items}
}

func (d *Data[T]) Items() []*T {
	if d == nil {
		return nil
	}
	return d.items
}

func (d *Data[T]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

func (d *Data[T]) IsEmpty() bool { return d.Len() == 0 }

// First returns the first record, or nil when empty.
func (d *Data[T]) First() *T {
	if d.IsEmpty() {
		return nil
	}
	return d.items[0]
}

// Each calls fn for every record in order and stops at the first error.
func (d *Data[T]) Each(fn func(i int, item *T) error) error {
	for i, item := range d.Items() {
		if err := fn(i, item); err != nil {
			return err
		}
	}
	return nil
}

// JSON encodes the records as a JSON array.
func (d *Data[T]) JSON() ([]byte, error) {
	return json.Marshal(d.Items())
}

// ToJsonArray converts the records to their map form using their JSON tags.
func (d *Data[T]) ToJsonArray() (JsonArray, error) {
	b, err := d.JSON()
	if err != nil {
		return nil, err
	}
	out := make(JsonArray, 0, d.Len())
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
