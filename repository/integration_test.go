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
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tomoncle/dabas/database"
	"github.com/tomoncle/dabas/types"
	"github.com/uptrace/bun"
)

// setupPostgres starts a PostgreSQL container and connects to it through the
// pgx driver. It skips unless TEST_INTEGRATION is set.
func setupPostgres(t *testing.T) *bun.DB {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("dabas_test"),
		postgres.WithUsername("dabas"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := database.DefaultConnectionConfig()
	cfg.Type = "pgx"
	cfg.DSN = dsn
	cfg.HealthCheckInterval = 0
	manager := database.NewDatabaseManager(cfg)
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })

	db := manager.GetDB()
	require.NoError(t, database.CreateTables(ctx, db, (*user)(nil), (*membership)(nil)))
	return db
}

func TestPostgresRepository(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := newUserRepo(t, db)

	seedUsers(t, repo, 5)

	page, err := repo.Paginate(ctx, types.NewDefaultPageRequest(2, 2))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ids(page.Items))

	data, err := repo.Get(ctx, types.NewQuery(types.ILike("name", "USER1")))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(data.Items()))

	n, err := repo.BulkUpdate(ctx, []map[string]any{{"id": 1, "age": 70}, {"id": 2, "age": 71}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	err = repo.Insert(ctx, &user{Name: "user1"})
	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, database.DuplicateKeyErr, txErr.Kind)

	deleted, err := repo.Delete(ctx, nil, 2, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	deleted, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)
}
