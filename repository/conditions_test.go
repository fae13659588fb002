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
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/dabas/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

// renderSelect builds the SELECT for conditions and orders without running it.
func renderSelect(t *testing.T, dialect schema.Dialect, conditions []types.Condition, orders ...types.Order) string {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:render?mode=memory")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, dialect)
	t.Cleanup(func() { _ = db.Close() })

	q := db.NewSelect().Model((*user)(nil))
	q = applyConditions(q, db.Dialect(), conditions)
	q = applyOrders(q, orders)
	return q.String()
}

func TestRenderConditions(t *testing.T) {
	query := renderSelect(t, pgdialect.New(), []types.Condition{
		types.Eq("name", "bob"),
		types.Ne("age", 3),
		types.In("id", 1, 2),
		types.Between("age", 1, 9),
		types.NotBetween("age", 4, 5),
		types.Eq("email", nil),
		types.IsNotNull("name"),
		types.Like("name", "b%"),
	}, types.Desc("age"), types.Asc("id"))

	for _, fragment := range []string{
		`"name" = 'bob'`,
		`"age" <> 3`,
		`"id" IN (1, 2)`,
		`"age" BETWEEN 1 AND 9`,
		`"age" NOT BETWEEN 4 AND 5`,
		`"email" IS NULL`,
		`"name" IS NOT NULL`,
		`"name" LIKE 'b%'`,
		`ORDER BY "age" DESC, "id" ASC`,
	} {
		assert.Contains(t, query, fragment)
	}
	assert.Contains(t, query, " AND ")
}

func TestRenderEmptyIn(t *testing.T) {
	query := renderSelect(t, sqlitedialect.New(), []types.Condition{types.In("id")})
	assert.Contains(t, query, "1 = 0")
	assert.NotContains(t, query, "IN (")
}

func TestRenderILikePerDialect(t *testing.T) {
	cond := []types.Condition{types.ILike("name", "b%")}
	assert.Contains(t, renderSelect(t, pgdialect.New(), cond), `"name" ILIKE 'b%'`)
	assert.Contains(t, renderSelect(t, sqlitedialect.New(), cond), `LOWER("name") LIKE LOWER('b%')`)
	assert.Contains(t, renderSelect(t, mysqldialect.New(), cond), "LOWER(`name`) LIKE LOWER('b%')")
}

func TestRenderNoConditions(t *testing.T) {
	assert.NotContains(t, renderSelect(t, pgdialect.New(), nil), "WHERE")
}

func TestEqualityConditions(t *testing.T) {
	conds := equalityConditions(map[string]interface{}{"name": "x", "age": 3, "email": nil})
	require.Len(t, conds, 3)
	assert.Equal(t, types.Eq("age", 3), conds[0])
	assert.Equal(t, types.IsNull("email"), conds[1])
	assert.Equal(t, types.Eq("name", "x"), conds[2])
}
